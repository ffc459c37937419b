package provider

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudcmds/unweave/errz"
	"github.com/cloudcmds/unweave/object"
	"github.com/cloudcmds/unweave/vm"
)

func TestJVMMethods(t *testing.T) {
	vc := vm.NewContext(standard())
	hello := object.NewString("hello")

	tests := []struct {
		owner, name, desc string
		receiver          any
		args              []any
		expected          object.Value
	}{
		{"java/lang/Math", "max", "(II)I", nil, []any{int32(3), int32(9)}, object.NewInt(9)},
		{"java/lang/Math", "abs", "(J)J", nil, []any{int64(-4)}, object.NewLong(4)},
		{"java/lang/Math", "floorMod", "(II)I", nil, []any{int32(-7), int32(3)}, object.NewInt(2)},
		{"java/lang/Math", "round", "(D)J", nil, []any{2.5}, object.NewLong(3)},
		{"java/lang/Integer", "toHexString", "(I)Ljava/lang/String;", nil, []any{int32(-1)}, object.NewString("ffffffff")},
		{"java/lang/Integer", "rotateLeft", "(II)I", nil, []any{int32(1), int32(33)}, object.NewInt(2)},
		{"java/lang/Integer", "valueOf", "(I)Ljava/lang/Integer;", nil, []any{int32(7)}, object.NewObject("java/lang/Integer", int32(7))},
		{"java/lang/Character", "isDigit", "(C)Z", nil, []any{uint16('7')}, object.True},
		{"java/lang/String", "hashCode", "()I", hello, nil, object.NewInt(99162322)},
		{"java/lang/String", "length", "()I", object.NewString("h€llo"), nil, object.NewInt(5)},
		{"java/lang/String", "substring", "(II)Ljava/lang/String;", hello, []any{int32(1), int32(3)}, object.NewString("el")},
		{"java/lang/String", "indexOf", "(I)I", hello, []any{int32('l')}, object.NewInt(2)},
		{"java/lang/String", "equals", "(Ljava/lang/Object;)Z", hello, []any{"hello"}, object.True},
		{"java/lang/String", "valueOf", "(C)Ljava/lang/String;", nil, []any{uint16('x')}, object.NewString("x")},
		{"java/lang/String", "valueOf", "(D)Ljava/lang/String;", nil, []any{2.0}, object.NewString("2.0")},
	}
	for _, tt := range tests {
		t.Run(tt.owner+"."+tt.name+tt.desc, func(t *testing.T) {
			result, err := vm.Invoke(vc, tt.owner, tt.name, tt.desc, tt.receiver, tt.args...)
			require.Nil(t, err)
			require.True(t, tt.expected.Equals(result), "got %s", result.Inspect())
		})
	}
}

func TestJVMUnboxing(t *testing.T) {
	vc := vm.NewContext(standard())
	boxed, err := vm.Invoke(vc, "java/lang/Integer", "valueOf", "(I)Ljava/lang/Integer;", nil, int32(300))
	require.Nil(t, err)

	v, err := vm.Invoke(vc, "java/lang/Integer", "intValue", "()I", boxed)
	require.Nil(t, err)
	require.Equal(t, object.NewInt(300), v)

	v, err = vm.Invoke(vc, "java/lang/Number", "byteValue", "()B", boxed)
	require.Nil(t, err)
	require.Equal(t, object.NewByte(44), v)

	v, err = vm.Invoke(vc, "java/lang/Integer", "doubleValue", "()D", boxed)
	require.Nil(t, err)
	require.Equal(t, object.NewDouble(300), v)
}

func TestJVMThrowsHostExceptions(t *testing.T) {
	vc := vm.NewContext(standard())
	_, err := vm.Invoke(vc, "java/lang/Integer", "parseInt", "(Ljava/lang/String;)I", nil, "zz")
	e, ok := errz.AsExecution(err)
	require.True(t, ok)
	require.Equal(t, errz.ErrThrown, e.Kind)
	require.Equal(t, "java/lang/NumberFormatException", e.Thrown.(*object.Object).Class())

	_, err = vm.Invoke(vc, "java/lang/String", "length", "()I", object.NewNull())
	e, ok = errz.AsExecution(err)
	require.True(t, ok)
	require.Equal(t, "java/lang/NullPointerException", e.Thrown.(*object.Object).Class())
}

func TestArraycopy(t *testing.T) {
	vc := vm.NewContext(standard())
	src := object.ValueOf([]int32{1, 2, 3, 4})
	dst := object.ValueOf([]int32{0, 0, 0, 0})
	_, err := vm.Invoke(vc, "java/lang/System", "arraycopy", "(Ljava/lang/Object;ILjava/lang/Object;II)V",
		nil, src, int32(1), dst, int32(0), int32(3))
	require.Nil(t, err)
	require.Equal(t, []any{int32(2), int32(3), int32(4), int32(0)}, dst.Interface())

	// overlapping copy within one array
	_, err = vm.Invoke(vc, "java/lang/System", "arraycopy", "(Ljava/lang/Object;ILjava/lang/Object;II)V",
		nil, src, int32(0), src, int32(1), int32(3))
	require.Nil(t, err)
	require.Equal(t, []any{int32(1), int32(1), int32(2), int32(3)}, src.Interface())

	_, err = vm.Invoke(vc, "java/lang/System", "arraycopy", "(Ljava/lang/Object;ILjava/lang/Object;II)V",
		nil, src, int32(2), dst, int32(0), int32(3))
	e, ok := errz.AsExecution(err)
	require.True(t, ok)
	require.Equal(t, "java/lang/ArrayIndexOutOfBoundsException", e.Thrown.(*object.Object).Class())
}

func TestJVMRegister(t *testing.T) {
	jvm := NewJVM()
	require.False(t, jvm.Supports("demo/Util", "seed", "()I"))
	jvm.Register("demo/Util", "seed", "()I", func(vc *vm.Context, call *vm.MethodCall) (object.Value, error) {
		return object.NewInt(11), nil
	})
	require.True(t, jvm.Supports("demo/Util", "seed", "()I"))
	require.Contains(t, jvm.Methods(), "demo/Util.seed()I")

	vc := vm.NewContext(jvm)
	v, err := vm.Invoke(vc, "demo/Util", "seed", "()I", nil)
	require.Nil(t, err)
	require.Equal(t, object.NewInt(11), v)
}
