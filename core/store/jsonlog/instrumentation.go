package jsonlog

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const scopeName = "github.com/koscakluka/ema-assist/core/store/jsonlog"

var logger = otelslog.NewLogger(scopeName)
