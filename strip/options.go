package strip

import (
	"github.com/tliron/commonlog"
)

// ImportTransform rewrites the specifier of an import or re-export. It
// receives the unquoted specifier and returns the replacement.
type ImportTransform func(specifier string) (string, error)

// TraceFunc receives one record per matcher action.
type TraceFunc func(TraceRecord)

type options struct {
	file            string
	recover         bool
	debug           bool
	trace           TraceFunc
	transformImport ImportTransform
	onError         func(*ParseError)
	log             commonlog.Logger
}

// Option configures a Transpile call.
type Option func(*options)

// WithFile sets the file name reported in error positions.
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// WithRecover makes statement lists skip over malformed statements
// instead of failing the whole call.
func WithRecover() Option {
	return func(o *options) { o.recover = true }
}

// WithDebug traces every matcher action to the debug level of the logger.
func WithDebug() Option {
	return func(o *options) { o.debug = true }
}

// WithTrace sends every matcher action to fn.
func WithTrace(fn TraceFunc) Option {
	return func(o *options) { o.trace = fn }
}

// WithImportTransform rewrites module specifiers of imports and
// re-exports.
func WithImportTransform(fn ImportTransform) Option {
	return func(o *options) { o.transformImport = fn }
}

// WithErrorHandler is called with every failure skipped in recovering mode.
func WithErrorHandler(fn func(*ParseError)) Option {
	return func(o *options) { o.onError = fn }
}

// WithLogger replaces the package logger.
func WithLogger(log commonlog.Logger) Option {
	return func(o *options) { o.log = log }
}

func buildOptions(opts []Option) options {
	o := options{log: commonlog.GetLogger("typestripped.strip")}
	for _, opt := range opts {
		opt(&o)
	}
	if o.debug && o.trace == nil {
		log := o.log
		o.trace = func(rec TraceRecord) {
			log.Debugf("%s", rec)
		}
	}
	return o
}
