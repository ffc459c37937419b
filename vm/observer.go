package vm

import (
	"github.com/rs/zerolog"

	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/op"
)

// StepMode controls when OnStep callbacks are triggered.
type StepMode uint8

const (
	// StepAll calls OnStep for every instruction.
	StepAll StepMode = iota

	// StepNone never calls OnStep.
	StepNone

	// StepSampled calls OnStep every N instructions.
	StepSampled

	// StepOnBlock calls OnStep for the first instruction executed after
	// control enters a new label.
	StepOnBlock
)

// ObserverConfig specifies what events an observer wants to receive.
// Use NewObserverConfig() to create configs with safe defaults.
type ObserverConfig struct {
	// StepMode controls OnStep callback frequency.
	StepMode StepMode

	// SampleInterval is the number of instructions between OnStep calls
	// when StepMode is StepSampled. Values <= 0 are treated as 1.
	SampleInterval int

	// ObserveCalls enables OnCall callbacks.
	ObserveCalls bool

	// ObserveReturns enables OnReturn callbacks.
	ObserveReturns bool
}

// NewObserverConfig creates a config with safe defaults.
// ObserveCalls and ObserveReturns default to true.
func NewObserverConfig(mode StepMode) ObserverConfig {
	return ObserverConfig{
		StepMode:       mode,
		SampleInterval: 1000,
		ObserveCalls:   true,
		ObserveReturns: true,
	}
}

// NormalizeConfig validates and clamps config values.
func NormalizeConfig(cfg ObserverConfig) ObserverConfig {
	if cfg.StepMode == StepSampled && cfg.SampleInterval <= 0 {
		cfg.SampleInterval = 1
	}
	return cfg
}

// Observer is an interface for observing execution events. Implementations
// can embed NoOpObserver for the methods they don't need.
type Observer interface {
	// Config returns the observer's configuration. It is read once per
	// executed method.
	Config() ObserverConfig

	// OnStep is called based on the StepMode in the observer's config.
	// Returns false to halt execution.
	OnStep(event StepEvent) bool

	// OnCall is called when a method frame is entered.
	// Returns false to halt execution.
	OnCall(event CallEvent) bool

	// OnReturn is called when a method frame returns normally.
	// Returns false to halt execution.
	OnReturn(event ReturnEvent) bool
}

// StepEvent contains information about one executed instruction.
type StepEvent struct {
	// Method is the executing method.
	Method *bytecode.Method

	// Index is the position of the instruction in the method.
	Index int

	// Opcode is the operation being executed.
	Opcode op.Code

	// StackDepth is the current depth of the operand stack.
	StackDepth int

	// FrameDepth is the current depth of the call stack.
	FrameDepth int
}

// CallEvent contains information about a method frame being entered.
type CallEvent struct {
	Method     *bytecode.Method
	ArgCount   int
	FrameDepth int
}

// ReturnEvent contains information about a method frame returning.
type ReturnEvent struct {
	Method     *bytecode.Method
	FrameDepth int
}

// NoOpObserver is an Observer implementation that does nothing.
type NoOpObserver struct{}

func (NoOpObserver) Config() ObserverConfig {
	return NewObserverConfig(StepAll)
}

func (NoOpObserver) OnStep(StepEvent) bool { return true }

func (NoOpObserver) OnCall(CallEvent) bool { return true }

func (NoOpObserver) OnReturn(ReturnEvent) bool { return true }

var _ Observer = NoOpObserver{}

// LogObserver writes calls and returns at debug level and steps at trace
// level.
type LogObserver struct {
	Logger zerolog.Logger
	Mode   StepMode
}

// NewLogObserver returns a LogObserver writing to logger.
func NewLogObserver(logger zerolog.Logger, mode StepMode) *LogObserver {
	return &LogObserver{Logger: logger, Mode: mode}
}

func (o *LogObserver) Config() ObserverConfig {
	return NewObserverConfig(o.Mode)
}

func (o *LogObserver) OnStep(e StepEvent) bool {
	o.Logger.Trace().
		Str("method", e.Method.Key()).
		Int("index", e.Index).
		Str("op", e.Opcode.String()).
		Int("stack", e.StackDepth).
		Int("depth", e.FrameDepth).
		Msg("step")
	return true
}

func (o *LogObserver) OnCall(e CallEvent) bool {
	o.Logger.Debug().
		Str("method", e.Method.Key()).
		Int("args", e.ArgCount).
		Int("depth", e.FrameDepth).
		Msg("call")
	return true
}

func (o *LogObserver) OnReturn(e ReturnEvent) bool {
	o.Logger.Debug().
		Str("method", e.Method.Key()).
		Int("depth", e.FrameDepth).
		Msg("return")
	return true
}
