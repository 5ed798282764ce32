package artdeco

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for decoration events.
var (
	SignalSignatureAnalyzed = capitan.NewSignal("artdeco.signature.analyzed", "Static signature built")
	SignalProcessorCreated  = capitan.NewSignal("artdeco.processor.created", "Processor instantiated")
	SignalCallBound         = capitan.NewSignal("artdeco.call.bound", "Invocation bound to signature")
	SignalArgsProcessed     = capitan.NewSignal("artdeco.args.processed", "Argument processing finished")
)

// Keys for typed event data.
var (
	KeyTarget         = capitan.NewStringKey("target")
	KeyPolicy         = capitan.NewStringKey("policy")
	KeyMode           = capitan.NewStringKey("mode")
	KeyCallID         = capitan.NewStringKey("call_id")
	KeyParamCount     = capitan.NewIntKey("param_count")
	KeyArgCount       = capitan.NewIntKey("arg_count")
	KeyVarArgCount    = capitan.NewIntKey("var_arg_count")
	KeyVarKwargCount  = capitan.NewIntKey("var_kwarg_count")
	KeyProcessedCount = capitan.NewIntKey("processed_count")
	KeyCheckCount     = capitan.NewIntKey("check_count")
	KeyDuration       = capitan.NewDurationKey("duration")
	KeyError          = capitan.NewErrorKey("error")
)

// emitSignatureAnalyzed emits an event when a target has been analyzed.
func emitSignatureAnalyzed(ctx context.Context, target, policy string, params int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyTarget.Field(target),
		KeyPolicy.Field(policy),
		KeyParamCount.Field(params),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalSignatureAnalyzed, fields...)
	} else {
		capitan.Emit(ctx, SignalSignatureAnalyzed, fields...)
	}
}

// emitProcessorCreated emits an event when a processor is built.
func emitProcessorCreated(ctx context.Context, target, mode, callID string) {
	fields := []capitan.Field{
		KeyTarget.Field(target),
		KeyMode.Field(mode),
	}
	if callID != "" {
		fields = append(fields, KeyCallID.Field(callID))
	}
	capitan.Emit(ctx, SignalProcessorCreated, fields...)
}

// emitCallBound emits an event when an invocation has been bound.
func emitCallBound(ctx context.Context, target, callID string, b *Bound, err error) {
	fields := []capitan.Field{
		KeyTarget.Field(target),
		KeyCallID.Field(callID),
	}
	if b != nil {
		varArgs, varKwargs := 0, 0
		if g := b.VarArgs(); g != nil {
			varArgs = g.Len()
		}
		if g := b.VarKwargs(); g != nil {
			varKwargs = g.Len()
		}
		fields = append(fields,
			KeyArgCount.Field(b.Len()),
			KeyVarArgCount.Field(varArgs),
			KeyVarKwargCount.Field(varKwargs),
		)
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalCallBound, fields...)
	} else {
		capitan.Emit(ctx, SignalCallBound, fields...)
	}
}

// emitArgsProcessed emits an event when processing of a call finishes.
func emitArgsProcessed(ctx context.Context, target, callID string, processed, checks int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyTarget.Field(target),
		KeyCallID.Field(callID),
		KeyProcessedCount.Field(processed),
		KeyCheckCount.Field(checks),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalArgsProcessed, fields...)
	} else {
		capitan.Emit(ctx, SignalArgsProcessed, fields...)
	}
}
