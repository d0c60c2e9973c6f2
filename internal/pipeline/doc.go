// Package pipeline finds candidate container files under an input path and
// runs the extraction engine over each of them in order.
//
// A batch never stops on a failing file: the failure is logged, counted and
// the runner moves on. Cancellation is checked before each file; a file that
// is already running finishes its current object first (see extract.Engine).
package pipeline
