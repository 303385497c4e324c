// Package weberr decorates errors with the HTTP response that should be
// rendered for them and with structured fields worth logging. Handlers
// return plain errors; the errors middleware asks this package how to
// report them.
package weberr

// Opt decorates an error with additional behavior.
type Opt func(error) error

// Wrap applies every option to the error in order.
func Wrap(err error, opts ...Opt) error {
	for _, opt := range opts {
		err = opt(err)
	}
	return err
}

// WithResponse attaches the body and status the client should receive.
func WithResponse(body interface{}, status int) Opt {
	return func(err error) error {
		return &responseError{error: err, body: body, status: status}
	}
}

// WithFields attaches structured fields for the logs.
func WithFields(fields map[string]interface{}) Opt {
	return func(err error) error {
		return &fieldsError{error: err, fields: fields}
	}
}
