package bytecode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		desc      string
		sort      Sort
		className string
		size      int
	}{
		{"I", SortInt, "int", 1},
		{"J", SortLong, "long", 2},
		{"D", SortDouble, "double", 2},
		{"Z", SortBoolean, "boolean", 1},
		{"V", SortVoid, "void", 0},
		{"Ljava/lang/String;", SortObject, "java.lang.String", 1},
		{"[I", SortArray, "int[]", 1},
		{"[[Ljava/lang/Object;", SortArray, "java.lang.Object[][]", 1},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			typ, err := ParseType(tt.desc)
			require.Nil(t, err)
			require.Equal(t, tt.sort, typ.Sort)
			require.Equal(t, tt.className, typ.ClassName())
			require.Equal(t, tt.size, typ.Size())
		})
	}
}

func TestParseTypeErrors(t *testing.T) {
	for _, desc := range []string{"", "Q", "L;", "Ljava/lang/String", "[", "[V", "II"} {
		_, err := ParseType(desc)
		require.Error(t, err, desc)
	}
}

func TestParseMethodDescriptor(t *testing.T) {
	params, ret, err := ParseMethodDescriptor("(I[JLjava/lang/String;D)[C")
	require.Nil(t, err)
	require.Len(t, params, 4)
	require.Equal(t, "I", params[0].Desc)
	require.Equal(t, "[J", params[1].Desc)
	require.Equal(t, "java/lang/String", params[2].InternalName())
	require.Equal(t, SortDouble, params[3].Sort)
	require.Equal(t, SortArray, ret.Sort)
	require.Equal(t, SortChar, ret.Elem().Sort)

	_, ret, err = ParseMethodDescriptor("()V")
	require.Nil(t, err)
	require.Equal(t, SortVoid, ret.Sort)

	for _, bad := range []string{"I", "(I", "(V)V", "(I)"} {
		_, _, err := ParseMethodDescriptor(bad)
		require.Error(t, err, bad)
	}
}

func TestArrayHelpers(t *testing.T) {
	typ := MustParseType("[[I")
	require.Equal(t, 2, typ.Dimensions())
	require.Equal(t, "[I", typ.Elem().Desc)
	require.False(t, typ.IsPrimitive())
	require.True(t, typ.Elem().Elem().IsPrimitive())
}

func TestNames(t *testing.T) {
	require.Equal(t, "a.b.C", DottedName("a/b/C"))
	require.Equal(t, "a/b/C", InternalName("a.b.C"))
	require.Equal(t, "La/b/C;", ObjectType("a/b/C").Desc)
	require.Equal(t, SortArray, ObjectType("[I").Sort)
}
