/*
Package mocks will have all the mocks of the library, we'll try to use mocking using blackbox
testing and integration tests whenever is possible.
*/
package mocks

// Root package mocks.
//go:generate mockery -output ./ -dir ../../ -name Call
//go:generate mockery -output ./ -dir ../../ -name Store

// throttle mocks.
//go:generate mockery -output ./throttle/limit -dir ../../throttle/limit -name Estimator
//go:generate mockery -output ./throttle/limit -dir ../../throttle/limit -name Permit
