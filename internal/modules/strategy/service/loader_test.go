package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"strategy_orchestrator/internal/models"
)

type stubStrategy struct{ initErr error }

func (s *stubStrategy) Initialize(context.Context, models.StrategyConfig) error {
	return s.initErr
}

func (s *stubStrategy) Run(context.Context) (models.Details, error) {
	return models.Details{}, nil
}

type stubRegistrar struct {
	fail       map[string]error
	registered []string
}

func (r *stubRegistrar) Register(_ context.Context, ls *models.LoadedStrategy) error {
	if err := r.fail[ls.Name()]; err != nil {
		return err
	}
	r.registered = append(r.registered, ls.Name())
	return nil
}

const validYAML = `
name: %s
enabled: true
cronSchedule: "*/15 * * * *"
entry: stub
trading:
  symbol: BTCUSDT
  position_size: 0.1
  timeframe: 15
indicators:
  ema: [9, 21]
risk_management:
  stop_loss:
    enabled: true
    percentage: 2
`

func writeDescriptor(t *testing.T, root, dir, file, body string) {
	t.Helper()
	p := filepath.Join(root, dir)
	if err := os.MkdirAll(p, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(p, file), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func yamlFor(name string) string {
	return fmt.Sprintf(validYAML, name)
}

func newTestLoader(reg *stubRegistrar) *Loader {
	r := NewRegistry()
	r.Register("stub", func() models.Strategy { return &stubStrategy{} })
	r.Register("broken", func() models.Strategy { return &stubStrategy{initErr: errors.New("nope")} })
	return NewLoaderWith(zap.NewNop(), r, reg)
}

func TestLoadMixedDirectory(t *testing.T) {
	root := t.TempDir()
	writeDescriptor(t, root, "alpha", "config.yaml", yamlFor("alpha"))
	writeDescriptor(t, root, "beta", "config.json", `{"name":"beta","enabled":true,"cronSchedule":"@hourly","entry":"stub",
		"trading":{"symbol":"PF_ETHUSDT","position_size":1,"timeframe":60},"indicators":{"ema":[20]}}`)
	writeDescriptor(t, root, "disabled", "config.yaml", "name: disabled\nenabled: false\ncronSchedule: \"@hourly\"\n")
	writeDescriptor(t, root, "nocron", "config.yaml", "name: nocron\nenabled: true\n")
	writeDescriptor(t, root, "malformed", "config.yaml", "name: [unclosed\n")
	writeDescriptor(t, root, "gamma", "config.yaml", yamlFor("gamma"))
	writeDescriptor(t, root, "dup", "config.yaml", yamlFor("alpha"))
	writeDescriptor(t, root, "badcron", "config.yaml", "name: badcron\nenabled: true\ncronSchedule: \"every day\"\ntrading:\n  symbol: X\n  timeframe: 1\n")
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "README.md"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	reg := &stubRegistrar{}
	rep, err := newTestLoader(reg).Load(context.Background(), root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(rep.Loaded) != 3 {
		t.Fatalf("loaded = %v, skipped = %v", keys(rep.Loaded), rep.Skipped)
	}
	for _, name := range []string{"alpha", "beta", "gamma"} {
		if _, ok := rep.Loaded[name]; !ok {
			t.Fatalf("%s must be loaded, skipped: %v", name, rep.Skipped)
		}
	}
	for _, dir := range []string{"disabled", "nocron", "malformed", "dup", "badcron", "empty"} {
		if !errors.Is(rep.Skipped[dir], models.ErrConfig) {
			t.Fatalf("%s: expected config error, got %v", dir, rep.Skipped[dir])
		}
	}
	if len(reg.registered) != 3 {
		t.Fatalf("registered = %v", reg.registered)
	}
}

func TestLoadEntryErrors(t *testing.T) {
	root := t.TempDir()
	body := "name: %s\nenabled: true\ncronSchedule: \"@hourly\"\nentry: %s\ntrading:\n  symbol: BTCUSDT\n  timeframe: 5\nindicators:\n  ema: [5]\n"
	writeDescriptor(t, root, "missing", "config.yaml", fmt.Sprintf(body, "missing", "ghost"))
	writeDescriptor(t, root, "broken", "config.yaml", fmt.Sprintf(body, "broken", "broken"))

	rep, err := newTestLoader(&stubRegistrar{}).Load(context.Background(), root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rep.Loaded) != 0 {
		t.Fatalf("nothing should load: %v", keys(rep.Loaded))
	}
	for _, dir := range []string{"missing", "broken"} {
		if !errors.Is(rep.Skipped[dir], models.ErrLoad) {
			t.Fatalf("%s: expected load error, got %v", dir, rep.Skipped[dir])
		}
	}
}

func TestLoadWarmupFailureSkipsStrategy(t *testing.T) {
	root := t.TempDir()
	writeDescriptor(t, root, "a", "config.yaml", yamlFor("a"))
	writeDescriptor(t, root, "b", "config.yaml", yamlFor("b"))

	reg := &stubRegistrar{fail: map[string]error{"a": models.ErrInsufficientData}}
	rep, err := newTestLoader(reg).Load(context.Background(), root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := rep.Loaded["a"]; ok {
		t.Fatal("a must be skipped")
	}
	if !errors.Is(rep.Skipped["a"], models.ErrInsufficientData) {
		t.Fatalf("a: %v", rep.Skipped["a"])
	}
	if _, ok := rep.Loaded["b"]; !ok {
		t.Fatal("b must be loaded")
	}
}

func TestLoadMissingRoot(t *testing.T) {
	_, err := newTestLoader(&stubRegistrar{}).Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, models.ErrLoad) {
		t.Fatalf("expected load error, got %v", err)
	}
}

func TestReadDescriptorDefaults(t *testing.T) {
	root := t.TempDir()
	writeDescriptor(t, root, "ema_cross", "config.yaml", "enabled: true\ncronSchedule: \"@daily\"\n")

	cfg, err := ReadDescriptor(filepath.Join(root, "ema_cross"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if cfg.Name != "ema_cross" || cfg.Entry != "ema_cross" || cfg.CronSchedule != "@daily" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	base := models.StrategyConfig{
		Name:         "x",
		CronSchedule: "@hourly",
		Trading:      models.Trading{Symbol: "BTCUSDT", Timeframe: 15},
		Indicators:   models.Indicators{EMA: []int{9, 21}},
	}
	if err := Validate(base); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := []func(c *models.StrategyConfig){
		func(c *models.StrategyConfig) { c.Trading.Symbol = "" },
		func(c *models.StrategyConfig) { c.Trading.Timeframe = 0 },
		func(c *models.StrategyConfig) { c.Indicators.EMA = []int{9, 9} },
		func(c *models.StrategyConfig) { c.Indicators.EMA = []int{-1} },
		func(c *models.StrategyConfig) { c.Risk.TakeProfit = models.RiskRule{Enabled: true} },
		func(c *models.StrategyConfig) { c.CronSchedule = "61 * * * *" },
	}
	for i, mutate := range bad {
		c := base
		c.Indicators.EMA = append([]int(nil), base.Indicators.EMA...)
		mutate(&c)
		if err := Validate(c); !errors.Is(err, models.ErrConfig) {
			t.Fatalf("case %d: expected config error, got %v", i, err)
		}
	}
}

func keys(m map[string]*models.LoadedStrategy) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
