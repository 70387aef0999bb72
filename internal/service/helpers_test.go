package service

import "apevault/pkg/logger"

func testLogger() *logger.Logger {
	return logger.NewNop()
}
