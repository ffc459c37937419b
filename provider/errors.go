package provider

import (
	"github.com/cloudcmds/unweave/errz"
	"github.com/cloudcmds/unweave/vm"
)

func unsupported(vc *vm.Context, format string, args ...any) *errz.ExecutionError {
	return errz.ExecutionErrorf(errz.ErrUnsupported, vc.StackTrace(), format, args...)
}

func fault(vc *vm.Context, format string, args ...any) *errz.ExecutionError {
	return errz.ExecutionErrorf(errz.ErrFault, vc.StackTrace(), format, args...)
}

func argsError(vc *vm.Context, call *vm.MethodCall, want int) *errz.ExecutionError {
	return fault(vc, "args error: %s takes %d arguments (%d given)", call, want, len(call.Args))
}
