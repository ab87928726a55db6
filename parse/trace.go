package parse

import (
	"github.com/tliron/commonlog"

	"github.com/dhamidi/parsnip/input"
)

var traceLog = commonlog.GetLogger("parsnip.trace")

// Trace logs when p is entered and how it finished, at debug level on the
// "parsnip.trace" logger. When debug logging is off it only checks the level.
func Trace[E, T any](name string, p Parser[E, T]) Parser[E, T] {
	mustParser(p, "Trace")
	return func(in input.Input[E]) Result[E, T] {
		if !traceLog.AllowLevel(commonlog.Debug) {
			return p(in)
		}
		traceLog.Debugf("%s: enter at %s", name, in.Position())
		r := p(in)
		switch {
		case r.OK:
			traceLog.Debugf("%s: ok at %s -> %s", name, in.Position(), r.Rest.Position())
		case r.Consumed(in):
			traceLog.Debugf("%s: fail after consuming at %s: %s", name, in.Position(), r.Err)
		default:
			traceLog.Debugf("%s: fail at %s: %s", name, in.Position(), r.Err)
		}
		return r
	}
}
