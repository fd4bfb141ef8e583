package errors

import "sync"

var (
	defaultHandler *ErrorHandler
	once           sync.Once
)

func GetDefaultHandler() (*ErrorHandler, error) {
	var err error
	once.Do(func() {
		defaultHandler, err = NewErrorHandler()
	})
	return defaultHandler, err
}

// HandleError logs err to the error log and prints it to the console. When no
// log file can be opened the error is still printed.
func HandleError(err error) {
	if handler, handlerErr := GetDefaultHandler(); handlerErr == nil && handler != nil {
		handler.Handle(err)
		return
	}
	newConsoleOnlyHandler().Handle(err)
}

// resetDefaultHandler resets the singleton for testing purposes
func resetDefaultHandler() {
	defaultHandler = nil
	once = sync.Once{}
}
