package catalog

import "go.opentelemetry.io/contrib/bridges/otelslog"

const scopeName = "github.com/koscakluka/ema-assist/core/catalog"

var logger = otelslog.NewLogger(scopeName)
