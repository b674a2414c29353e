package models

import "errors"

// Классы ошибок оркестратора. Конкретные ошибки оборачивают их,
// проверка через errors.Is.
var (
	// ErrConfig дескриптор отсутствует, не парсится, выключен или без расписания.
	ErrConfig = errors.New("config error")
	// ErrLoad у дескриптора нет зарегистрированного пайплайна.
	ErrLoad = errors.New("load error")

	ErrInsufficientData = errors.New("insufficient data")
	ErrUnreliableData   = errors.New("unreliable data")

	// ErrData ответ провайдера свечей пустой или битый.
	ErrData = errors.New("data error")
	// ErrExecution любая другая ошибка во время решения/исполнения/сохранения.
	ErrExecution = errors.New("execution error")

	ErrNotFound       = errors.New("strategy not found")
	ErrAlreadyRunning = errors.New("strategy already running")
)
