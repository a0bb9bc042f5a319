// Package errors provides examples of structured error handling in sheetsfdw.
package errors_test

import (
	"fmt"
	"io"

	"github.com/ajitpratap0/sheetsfdw/pkg/errors"
)

// Example demonstrates basic error creation and wrapping.
func Example() {
	// Create a new error with type
	err := errors.New(errors.ErrorTypeFormat, "invalid response")

	// Add context details
	err = err.WithDetail("sheet_id", "1bTLh7yw").
		WithDetail("bytes", 42)

	fmt.Println(err.Error())

	// Output:
	// format: invalid response
}

// ExampleWrap shows how to wrap existing errors with context.
func ExampleWrap() {
	originalErr := io.ErrUnexpectedEOF

	err := errors.Wrap(originalErr, errors.ErrorTypeTransport, "request to remote source failed").
		WithDetail("url", "https://docs.google.com/spreadsheets/d/abc/gviz/tq?tqx=out:json")

	if errors.IsType(err, errors.ErrorTypeTransport) {
		fmt.Println("This is a transport error")
	}
	fmt.Println(err)

	// Output:
	// This is a transport error
	// transport: request to remote source failed: unexpected EOF
}

// ExampleMissingOption shows the error raised for an absent required option.
func ExampleMissingOption() {
	err := errors.MissingOption("sheet_id")

	fmt.Println(err)
	fmt.Println(err.Details["option"])

	// Output:
	// missing_option: required option `sheet_id` is not specified
	// sheet_id
}

// Example_errorChain shows how to chain multiple error contexts.
func Example_errorChain() {
	err := decodeBody()
	if err != nil {
		err = errors.Wrap(err, errors.ErrorTypeInternal, "begin scan failed").
			WithDetail("connector", "gsheets")

		fmt.Println("Full error chain:", err)
	}

	// Output:
	// Full error chain: internal: begin scan failed: format: cannot get rows from response
}

func decodeBody() error {
	return errors.New(errors.ErrorTypeFormat, "cannot get rows from response")
}

// ExampleIsType demonstrates checking error types.
func ExampleIsType() {
	typeErr := errors.Newf(errors.ErrorTypeUnsupportedType, "column %s data type is not supported", "price")
	opErr := errors.New(errors.ErrorTypeUnsupportedOperation, "re_scan on foreign table is not supported")

	wrappedErr := errors.Wrap(typeErr, errors.ErrorTypeInternal, "iter scan failed")

	fmt.Printf("Is unsupported type: %v\n", errors.IsType(typeErr, errors.ErrorTypeUnsupportedType))
	fmt.Printf("Is unsupported operation: %v\n", errors.IsType(opErr, errors.ErrorTypeUnsupportedOperation))

	// IsType only looks at the outermost structured error
	fmt.Printf("Wrapped error is internal: %v\n", errors.IsType(wrappedErr, errors.ErrorTypeInternal))
	fmt.Printf("Wrapped error is unsupported type: %v\n", errors.IsType(wrappedErr, errors.ErrorTypeUnsupportedType))
	fmt.Printf("TypeOf plain error: %v\n", errors.TypeOf(io.EOF))

	// Output:
	// Is unsupported type: true
	// Is unsupported operation: true
	// Wrapped error is internal: true
	// Wrapped error is unsupported type: false
	// TypeOf plain error: internal
}
