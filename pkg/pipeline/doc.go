// Package pipeline chains feature stages and a final estimator.
//
// Stages are registered in order. Fitting walks them once: every stage is fitted on
// the output of the previous one and immediately transforms it, so later stages see
// the columns earlier stages produced. The estimator is then fitted on the resulting
// table. Fitting returns a Model holding the fitted value of every stage; the
// pipeline itself is never modified, and a Model can transform or predict any
// number of tables, including concurrently.
//
// Options observe the pipeline through model.PipelineOption. They are told about
// every registered stage and about every stage output with its shape and duration,
// which is how timings are measured, logged and drawn.
//
// The pipeline stops on the first error. Errors are wrapped with the name of the
// stage that failed, and the context is checked before each stage runs.
package pipeline
