// Package errors provides examples of structured error handling in dataprof.
package errors_test

import (
	"fmt"
	"io"

	"github.com/dataprof/dataprof/pkg/errors"
)

// Example demonstrates basic error creation.
func Example() {
	err := errors.New(errors.ErrorTypeValidation, "profile is missing a session id")

	err = err.WithDetail("dataset", "orders").
		WithDetail("column_count", 12)

	fmt.Println(err.Error())

	// Output:
	// validation: profile is missing a session id
}

// ExampleWrap shows how to wrap existing errors with context.
func ExampleWrap() {
	originalErr := io.ErrUnexpectedEOF

	err := errors.Wrap(originalErr, errors.ErrorTypeDecode, "failed to parse delimited profile stream").
		WithDetail("position", 1024)

	if errors.IsType(err, errors.ErrorTypeDecode) {
		fmt.Println("This is a decode error")
	}

	// Output:
	// This is a decode error
}

// ExampleIsType demonstrates checking error types through wrapping.
func ExampleIsType() {
	precondErr := errors.New(errors.ErrorTypePrecondition, "session id mismatch")
	wrappedErr := errors.Wrap(precondErr, errors.ErrorTypeData, "merge failed")

	fmt.Printf("Is precondition error: %v\n", errors.IsType(precondErr, errors.ErrorTypePrecondition))
	fmt.Printf("Wrapped error is data type: %v\n", errors.IsType(wrappedErr, errors.ErrorTypeData))
	fmt.Printf("Wrapped error reports precondition type: %v\n", errors.IsType(wrappedErr, errors.ErrorTypePrecondition))

	// Output:
	// Is precondition error: true
	// Wrapped error is data type: true
	// Wrapped error reports precondition type: false
}
