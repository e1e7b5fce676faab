// Package model provides the contracts shared by the pipeline package and its stages.
// It defines how a stage is fitted and replayed, the information the pipeline keeps
// about each stage, and the options that observe a pipeline while it runs.
package model
