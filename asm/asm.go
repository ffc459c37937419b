// Package asm implements a small line-oriented assembler for JVM classes.
//
// The syntax follows Jasmin loosely:
//
//	.class public demo/Cipher
//	.super java/lang/Object
//	.field static KEY I = 5
//
//	.method public static decrypt(I)I
//	  .limit locals 1
//	  getstatic demo/Cipher.KEY I
//	  iload_0
//	  ixor
//	  ireturn
//	.end method
//
// Labels are written "name:" on their own line and referenced by name.
// Labels named L<n> get id n; other names get ids above 65535 in order of
// first mention. Comments start with "//" or "#".
package asm

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/cloudcmds/unweave/bytecode"
	"github.com/cloudcmds/unweave/op"
)

// Parse assembles the given source into classes.
func Parse(src string) ([]*bytecode.Class, error) {
	return ParseNamed("", src)
}

// ParseNamed is like Parse, using file in error messages.
func ParseNamed(file, src string) ([]*bytecode.Class, error) {
	a := &assembler{file: file}
	for i, line := range strings.Split(src, "\n") {
		a.line = i + 1
		a.src = line
		tokens, err := tokenize(line)
		if err != nil {
			a.fail("%s", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}
		a.statement(tokens)
	}
	a.line++
	a.src = ""
	if a.method != nil {
		a.fail("missing .end method for %s", a.method.name)
	}
	a.endClass()
	if err := a.errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return a.classes, nil
}

// ParseFile reads and assembles a source file.
func ParseFile(path string) ([]*bytecode.Class, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseNamed(path, string(data))
}

// Dictionary assembles src and returns its classes keyed by name.
func Dictionary(src string) (bytecode.ClassMap, error) {
	classes, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return bytecode.NewClassMap(classes...), nil
}

type classBuilder struct {
	name       string
	super      string
	interfaces []string
	access     int
	fields     []bytecode.Field
	methods    []*bytecode.Method
}

type methodBuilder struct {
	name         string
	desc         string
	access       int
	maxLocals    int
	instructions []bytecode.Instruction
	tryCatches   []bytecode.TryCatch
	labels       map[string]bytecode.Label
	nextLabel    bytecode.Label
}

type assembler struct {
	file    string
	line    int
	src     string
	errs    *multierror.Error
	classes []*bytecode.Class
	class   *classBuilder
	method  *methodBuilder
}

func (a *assembler) fail(format string, args ...any) {
	a.errs = multierror.Append(a.errs, &SyntaxError{
		File:       a.file,
		Line:       a.line,
		Message:    fmt.Sprintf(format, args...),
		SourceCode: a.src,
	})
}

var accessFlags = map[string]int{
	"public":    bytecode.AccPublic,
	"private":   bytecode.AccPrivate,
	"protected": bytecode.AccProtected,
	"static":    bytecode.AccStatic,
	"final":     bytecode.AccFinal,
	"interface": bytecode.AccInterface,
	"abstract":  bytecode.AccAbstract,
}

// flags consumes leading access flag words.
func flags(tokens []token) (int, []token) {
	access := 0
	for len(tokens) > 0 {
		f, ok := accessFlags[tokens[0].text]
		if !ok || tokens[0].kind != tokWord {
			break
		}
		access |= f
		tokens = tokens[1:]
	}
	return access, tokens
}

func (a *assembler) statement(tokens []token) {
	head := tokens[0].text
	switch {
	case tokens[0].kind == tokString:
		a.fail("unexpected string literal")
	case strings.HasPrefix(head, "."):
		a.directive(head, tokens[1:])
	case strings.HasSuffix(head, ":") && len(tokens) == 1:
		if a.method == nil {
			a.fail("label %s outside of a method", head)
			return
		}
		l := a.label(strings.TrimSuffix(head, ":"))
		a.method.instructions = append(a.method.instructions, bytecode.LabelInsn(l))
	default:
		if a.method == nil {
			a.fail("instruction %s outside of a method", head)
			return
		}
		ins, err := a.instruction(tokens)
		if err != nil {
			a.fail("%s", err)
			return
		}
		a.method.instructions = append(a.method.instructions, ins)
	}
}

func (a *assembler) directive(name string, args []token) {
	switch name {
	case ".class":
		a.endClass()
		access, rest := flags(args)
		if len(rest) != 1 {
			a.fail(".class expects a name")
			return
		}
		a.class = &classBuilder{name: rest[0].text, super: "java/lang/Object", access: access}
	case ".super", ".implements":
		if a.class == nil || len(args) != 1 {
			a.fail("%s expects a name inside a class", name)
			return
		}
		if name == ".super" {
			a.class.super = args[0].text
		} else {
			a.class.interfaces = append(a.class.interfaces, args[0].text)
		}
	case ".field":
		a.field(args)
	case ".method":
		a.startMethod(args)
	case ".limit":
		if a.method == nil || len(args) != 2 || args[0].text != "locals" {
			a.fail(".limit expects 'locals N' inside a method")
			return
		}
		n, err := strconv.Atoi(args[1].text)
		if err != nil {
			a.fail("invalid locals limit %q", args[1].text)
			return
		}
		a.method.maxLocals = n
	case ".catch":
		a.catch(args)
	case ".end":
		if len(args) != 1 {
			a.fail(".end expects 'method' or 'class'")
			return
		}
		switch args[0].text {
		case "method":
			a.endMethod()
		case "class":
			a.endClass()
		default:
			a.fail("unknown block %q", args[0].text)
		}
	default:
		a.fail("unknown directive %s", name)
	}
}

func (a *assembler) field(args []token) {
	if a.class == nil {
		a.fail(".field outside of a class")
		return
	}
	access, rest := flags(args)
	if len(rest) != 2 && !(len(rest) >= 4 && rest[2].text == "=") {
		a.fail(".field expects: [flags] name desc [= value]")
		return
	}
	f := bytecode.Field{Name: rest[0].text, Desc: rest[1].text, Access: access}
	typ, err := bytecode.ParseType(f.Desc)
	if err != nil {
		a.fail("%s", err)
		return
	}
	if len(rest) >= 4 {
		v, err := constant(rest[3:], typ.Size() == 2)
		if err != nil {
			a.fail("%s", err)
			return
		}
		if typ.Sort == bytecode.SortFloat {
			if d, ok := v.(float64); ok {
				v = float32(d)
			}
		}
		f.Value = v
	}
	a.class.fields = append(a.class.fields, f)
}

func (a *assembler) startMethod(args []token) {
	if a.class == nil {
		a.fail(".method outside of a class")
		return
	}
	if a.method != nil {
		a.fail("nested .method; missing .end method for %s", a.method.name)
		return
	}
	access, rest := flags(args)
	if len(rest) != 1 {
		a.fail(".method expects: [flags] name(desc)ret")
		return
	}
	paren := strings.IndexByte(rest[0].text, '(')
	if paren <= 0 {
		a.fail("invalid method signature %q", rest[0].text)
		return
	}
	a.method = &methodBuilder{
		name:      rest[0].text[:paren],
		desc:      rest[0].text[paren:],
		access:    access,
		labels:    map[string]bytecode.Label{},
		nextLabel: 1 << 16,
	}
}

func (a *assembler) endMethod() {
	if a.method == nil {
		a.fail(".end method without .method")
		return
	}
	mb := a.method
	a.method = nil
	m, err := bytecode.NewMethod(bytecode.MethodParams{
		Owner:        a.class.name,
		Name:         mb.name,
		Desc:         mb.desc,
		Access:       mb.access,
		MaxLocals:    mb.maxLocals,
		Instructions: mb.instructions,
		TryCatches:   mb.tryCatches,
	})
	if err != nil {
		a.fail("%s", err)
		return
	}
	a.class.methods = append(a.class.methods, m)
}

func (a *assembler) endClass() {
	if a.class == nil {
		return
	}
	cb := a.class
	a.class = nil
	c, err := bytecode.NewClass(bytecode.ClassParams{
		Name:       cb.name,
		SuperName:  cb.super,
		Interfaces: cb.interfaces,
		Access:     cb.access,
		Fields:     cb.fields,
		Methods:    cb.methods,
	})
	if err != nil {
		a.fail("%s", err)
		return
	}
	a.classes = append(a.classes, c)
}

func (a *assembler) catch(args []token) {
	if a.method == nil {
		a.fail(".catch outside of a method")
		return
	}
	if len(args) != 7 || args[1].text != "from" || args[3].text != "to" || args[5].text != "using" {
		a.fail(".catch expects: type from L to L using L")
		return
	}
	typ := args[0].text
	if typ == "*" || typ == "all" {
		typ = ""
	}
	a.method.tryCatches = append(a.method.tryCatches, bytecode.TryCatch{
		Start:   a.label(args[2].text),
		End:     a.label(args[4].text),
		Handler: a.label(args[6].text),
		Type:    typ,
	})
}

func (a *assembler) label(name string) bytecode.Label {
	mb := a.method
	if l, ok := mb.labels[name]; ok {
		return l
	}
	var l bytecode.Label
	if n, err := strconv.Atoi(strings.TrimPrefix(name, "L")); err == nil && strings.HasPrefix(name, "L") && n >= 0 && n < 1<<16 {
		l = bytecode.Label(n)
	} else {
		l = mb.nextLabel
		mb.nextLabel++
	}
	mb.labels[name] = l
	return l
}

var newArrayTypes = map[string]int{
	"boolean": bytecode.TBoolean,
	"char":    bytecode.TChar,
	"float":   bytecode.TFloat,
	"double":  bytecode.TDouble,
	"byte":    bytecode.TByte,
	"short":   bytecode.TShort,
	"int":     bytecode.TInt,
	"long":    bytecode.TLong,
}

func (a *assembler) instruction(tokens []token) (bytecode.Instruction, error) {
	code, ok := op.Lookup(tokens[0].text)
	if !ok || code == op.Label {
		return bytecode.Instruction{}, fmt.Errorf("unknown instruction %q", tokens[0].text)
	}
	args := tokens[1:]
	info := op.GetInfo(code)
	want := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%s expects %d operand(s), got %d", info.Name, n, len(args))
		}
		return nil
	}
	switch info.Operand {
	case op.OperandNone:
		if err := want(0); err != nil {
			return bytecode.Instruction{}, err
		}
		return bytecode.Insn(code), nil
	case op.OperandInt, op.OperandLocal:
		if err := want(1); err != nil {
			return bytecode.Instruction{}, err
		}
		n, err := strconv.Atoi(args[0].text)
		if err != nil {
			return bytecode.Instruction{}, fmt.Errorf("invalid integer %q", args[0].text)
		}
		if info.Operand == op.OperandLocal {
			return bytecode.VarInsn(code, n), nil
		}
		return bytecode.IntInsn(code, n), nil
	case op.OperandNewArray:
		if err := want(1); err != nil {
			return bytecode.Instruction{}, err
		}
		if t, ok := newArrayTypes[args[0].text]; ok {
			return bytecode.IntInsn(code, t), nil
		}
		n, err := strconv.Atoi(args[0].text)
		if err != nil {
			return bytecode.Instruction{}, fmt.Errorf("invalid array type %q", args[0].text)
		}
		return bytecode.IntInsn(code, n), nil
	case op.OperandIinc:
		if err := want(2); err != nil {
			return bytecode.Instruction{}, err
		}
		idx, err1 := strconv.Atoi(args[0].text)
		incr, err2 := strconv.Atoi(args[1].text)
		if err1 != nil || err2 != nil {
			return bytecode.Instruction{}, fmt.Errorf("iinc expects two integers")
		}
		return bytecode.IincInsn(idx, incr), nil
	case op.OperandConst:
		v, err := constant(args, code == op.Ldc2W)
		if err != nil {
			return bytecode.Instruction{}, err
		}
		ins := bytecode.LdcInsn(v)
		if code != op.Ldc2W {
			ins.Op = code
		}
		return ins, nil
	case op.OperandJump:
		if err := want(1); err != nil {
			return bytecode.Instruction{}, err
		}
		return bytecode.JumpInsn(code, a.label(args[0].text)), nil
	case op.OperandTableSwitch:
		return a.tableSwitch(args)
	case op.OperandLookupSwitch:
		return a.lookupSwitch(args)
	case op.OperandType:
		if err := want(1); err != nil {
			return bytecode.Instruction{}, err
		}
		return bytecode.TypeInsn(code, args[0].text), nil
	case op.OperandMultiArray:
		if err := want(2); err != nil {
			return bytecode.Instruction{}, err
		}
		dims, err := strconv.Atoi(args[1].text)
		if err != nil || dims < 1 {
			return bytecode.Instruction{}, fmt.Errorf("invalid dimensions %q", args[1].text)
		}
		return bytecode.MultiANewArrayInsn(args[0].text, dims), nil
	case op.OperandField:
		if err := want(2); err != nil {
			return bytecode.Instruction{}, err
		}
		owner, name, err := splitMember(args[0].text)
		if err != nil {
			return bytecode.Instruction{}, err
		}
		if _, err := bytecode.ParseType(args[1].text); err != nil {
			return bytecode.Instruction{}, err
		}
		return bytecode.FieldInsn(code, owner, name, args[1].text), nil
	case op.OperandMethod:
		if err := want(1); err != nil {
			return bytecode.Instruction{}, err
		}
		paren := strings.IndexByte(args[0].text, '(')
		if paren < 0 {
			return bytecode.Instruction{}, fmt.Errorf("invalid method reference %q", args[0].text)
		}
		owner, name, err := splitMember(args[0].text[:paren])
		if err != nil {
			return bytecode.Instruction{}, err
		}
		desc := args[0].text[paren:]
		if _, _, err := bytecode.ParseMethodDescriptor(desc); err != nil {
			return bytecode.Instruction{}, err
		}
		return bytecode.MethodInsn(code, owner, name, desc), nil
	case op.OperandDynamic:
		return invokeDynamic(args)
	}
	return bytecode.Instruction{}, fmt.Errorf("unsupported instruction %s", info.Name)
}

// tableswitch LOW L1 L2 ... default LD
func (a *assembler) tableSwitch(args []token) (bytecode.Instruction, error) {
	if len(args) < 3 || args[len(args)-2].text != "default" {
		return bytecode.Instruction{}, fmt.Errorf("tableswitch expects: low L... default L")
	}
	low, err := strconv.Atoi(args[0].text)
	if err != nil {
		return bytecode.Instruction{}, fmt.Errorf("invalid tableswitch low %q", args[0].text)
	}
	var targets []bytecode.Label
	for _, t := range args[1 : len(args)-2] {
		targets = append(targets, a.label(t.text))
	}
	return bytecode.TableSwitchInsn(low, a.label(args[len(args)-1].text), targets...), nil
}

// lookupswitch K1:L1 K2:L2 ... default LD
func (a *assembler) lookupSwitch(args []token) (bytecode.Instruction, error) {
	if len(args) < 2 || args[len(args)-2].text != "default" {
		return bytecode.Instruction{}, fmt.Errorf("lookupswitch expects: key:L... default L")
	}
	var keys []int32
	var targets []bytecode.Label
	for _, t := range args[:len(args)-2] {
		k, l, ok := strings.Cut(t.text, ":")
		if !ok {
			return bytecode.Instruction{}, fmt.Errorf("invalid lookupswitch case %q", t.text)
		}
		n, err := strconv.ParseInt(k, 0, 32)
		if err != nil {
			return bytecode.Instruction{}, fmt.Errorf("invalid lookupswitch key %q", k)
		}
		keys = append(keys, int32(n))
		targets = append(targets, a.label(l))
	}
	return bytecode.LookupSwitchInsn(a.label(args[len(args)-1].text), keys, targets), nil
}

// invokedynamic name desc bsmOwner.bsmName(bsmDesc) [args...]
func invokeDynamic(args []token) (bytecode.Instruction, error) {
	if len(args) < 3 {
		return bytecode.Instruction{}, fmt.Errorf("invokedynamic expects: name desc owner.bsm(desc) [args]")
	}
	if _, _, err := bytecode.ParseMethodDescriptor(args[1].text); err != nil {
		return bytecode.Instruction{}, err
	}
	ref := args[2].text
	paren := strings.IndexByte(ref, '(')
	if paren < 0 {
		return bytecode.Instruction{}, fmt.Errorf("invalid bootstrap method %q", ref)
	}
	owner, name, err := splitMember(ref[:paren])
	if err != nil {
		return bytecode.Instruction{}, err
	}
	bsm := bytecode.Handle{Tag: 6, Owner: owner, Name: name, Desc: ref[paren:]}
	var bsmArgs []any
	rest := args[3:]
	for len(rest) > 0 {
		n := 1
		if rest[0].kind == tokWord && rest[0].text == "class" {
			n = 2
		}
		if n > len(rest) {
			return bytecode.Instruction{}, fmt.Errorf("class literal expects a name")
		}
		v, err := constant(rest[:n], false)
		if err != nil {
			return bytecode.Instruction{}, err
		}
		bsmArgs = append(bsmArgs, v)
		rest = rest[n:]
	}
	return bytecode.InvokeDynamicInsn(args[0].text, args[1].text, bsm, bsmArgs...), nil
}

func splitMember(ref string) (string, string, error) {
	dot := strings.LastIndexByte(ref, '.')
	if dot <= 0 || dot == len(ref)-1 {
		return "", "", fmt.Errorf("invalid member reference %q", ref)
	}
	return ref[:dot], ref[dot+1:], nil
}

// constant parses an ldc operand. wide selects long/double for unsuffixed
// numbers.
func constant(args []token, wide bool) (any, error) {
	if len(args) == 2 && args[0].kind == tokWord && args[0].text == "class" {
		return bytecode.ObjectType(args[1].text), nil
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("expected one constant operand")
	}
	if args[0].kind == tokString {
		return args[0].text, nil
	}
	text := args[0].text
	lower := strings.ToLower(text)
	isHex := strings.HasPrefix(strings.TrimPrefix(lower, "-"), "0x")
	switch {
	case strings.HasSuffix(lower, "l"):
		return strconv.ParseInt(text[:len(text)-1], 0, 64)
	case !isHex && strings.HasSuffix(lower, "f"):
		f, err := strconv.ParseFloat(text[:len(text)-1], 32)
		return float32(f), err
	case !isHex && strings.HasSuffix(lower, "d"):
		return strconv.ParseFloat(text[:len(text)-1], 64)
	case !isHex && (strings.ContainsAny(lower, ".e") || lower == "nan" || strings.HasSuffix(lower, "inf")):
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid constant %q", text)
		}
		if wide {
			return f, nil
		}
		return float32(f), nil
	}
	n, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid constant %q", text)
	}
	if wide {
		return n, nil
	}
	if n < -1<<31 || n > 1<<31-1 {
		return nil, fmt.Errorf("int constant %q out of range", text)
	}
	return int32(n), nil
}
