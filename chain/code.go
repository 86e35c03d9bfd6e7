package chain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
)

// Code is a deployable contract: a set of methods and the manifest
// describing them. The serialized manifest is the code image the account is
// charged storage for.
type Code struct {
	manifest *manifest.Manifest
	methods  map[string]Method
	image    []byte
	hash     []byte
}

// NewCode builds contract code with the given name, supported standards and
// methods. It panics on duplicate method names.
func NewCode(name string, standards []string, methods ...Method) *Code {
	c := &Code{
		manifest: manifest.NewManifest(name),
		methods:  make(map[string]Method, len(methods)),
	}
	c.manifest.SupportedStandards = append([]string{}, standards...)

	for i, m := range methods {
		if _, ok := c.methods[m.Name]; ok {
			panic(fmt.Sprintf("duplicate method %q in %s", m.Name, name))
		}
		c.methods[m.Name] = m
		c.manifest.ABI.Methods = append(c.manifest.ABI.Methods, manifest.Method{
			Name:       m.Name,
			Offset:     i,
			Parameters: m.params,
			ReturnType: m.ret,
			Safe:       m.safe,
		})
	}

	image, err := json.Marshal(c.manifest)
	if err != nil {
		panic(fmt.Sprintf("can't marshal %s manifest: %v", name, err))
	}
	h := sha256.Sum256(image)
	c.image = image
	c.hash = h[:]
	return c
}

// Name returns the contract name.
func (c *Code) Name() string { return c.manifest.Name }

// Manifest returns the contract manifest.
func (c *Code) Manifest() *manifest.Manifest { return c.manifest }

// Image returns the serialized code.
func (c *Code) Image() []byte { return c.image }

// Size returns the size of the code image in bytes.
func (c *Code) Size() uint64 { return uint64(len(c.image)) }

// Hash returns the code hash.
func (c *Code) Hash() []byte { return c.hash }

// HashString returns hex-encoded code hash.
func (c *Code) HashString() string { return hex.EncodeToString(c.hash) }

// Method returns method by name.
func (c *Code) Method(name string) (Method, bool) {
	m, ok := c.methods[name]
	return m, ok
}

// Method is a contract entry point.
type Method struct {
	Name string

	safe    bool
	payable bool
	private bool
	params  []manifest.Parameter
	ret     smartcontract.ParamType
	invoke  func(ic *Context, args []byte) any
}

// View marks the method safe: it may be called through Blockchain.View and
// must not change state.
func (m Method) View() Method { m.safe = true; return m }

// Payable allows attaching a deposit to the method call.
func (m Method) Payable() Method { m.payable = true; return m }

// Private restricts the method to calls from the contract account itself,
// which is how callbacks are protected.
func (m Method) Private() Method { m.private = true; return m }

// IsView, IsPayable and IsPrivate report method modifiers.
func (m Method) IsView() bool    { return m.safe }
func (m Method) IsPayable() bool { return m.payable }
func (m Method) IsPrivate() bool { return m.private }

// Func makes a method taking JSON-encoded A and returning R. A *Promise
// result is not serialized; its outcome becomes the result of the call.
func Func[A, R any](name string, fn func(*Context, A) R) Method {
	return Method{
		Name:   name,
		params: paramsOf(reflect.TypeOf((*A)(nil)).Elem()),
		ret:    paramTypeOf(reflect.TypeOf((*R)(nil)).Elem()),
		invoke: func(ic *Context, raw []byte) any {
			return fn(ic, decodeArgs[A](raw))
		},
	}
}

// Proc makes a method taking JSON-encoded A and returning nothing.
func Proc[A any](name string, fn func(*Context, A)) Method {
	return Method{
		Name:   name,
		params: paramsOf(reflect.TypeOf((*A)(nil)).Elem()),
		ret:    smartcontract.VoidType,
		invoke: func(ic *Context, raw []byte) any {
			fn(ic, decodeArgs[A](raw))
			return nil
		},
	}
}

// Getter makes a view method without arguments.
func Getter[R any](name string, fn func(*Context) R) Method {
	return Method{
		Name: name,
		safe: true,
		ret:  paramTypeOf(reflect.TypeOf((*R)(nil)).Elem()),
		invoke: func(ic *Context, _ []byte) any {
			return fn(ic)
		},
	}
}

// Proc0 makes a method without arguments and result.
func Proc0(name string, fn func(*Context)) Method {
	return Method{
		Name: name,
		ret:  smartcontract.VoidType,
		invoke: func(ic *Context, _ []byte) any {
			fn(ic)
			return nil
		},
	}
}

func decodeArgs[A any](raw []byte) A {
	var args A
	if len(raw) == 0 {
		return args
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		panic(fmt.Errorf("%w: %w", ErrInvalidArguments, err))
	}
	return args
}

var (
	u128Type    = reflect.TypeOf(U128{})
	rawU128Type = reflect.TypeOf(uint128.Uint128{})
	promiseType = reflect.TypeOf((*Promise)(nil))
)

// paramsOf describes JSON fields of an argument struct as manifest
// parameters.
func paramsOf(t reflect.Type) []manifest.Parameter {
	if t.Kind() != reflect.Struct {
		return nil
	}
	var ps []manifest.Parameter
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		ps = append(ps, manifest.NewParameter(name, paramTypeOf(f.Type)))
	}
	return ps
}

func paramTypeOf(t reflect.Type) smartcontract.ParamType {
	if t == promiseType {
		return smartcontract.InteropInterfaceType
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch {
	case t == u128Type || t == rawU128Type:
		return smartcontract.IntegerType
	}
	switch t.Kind() {
	case reflect.String:
		return smartcontract.StringType
	case reflect.Bool:
		return smartcontract.BoolType
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return smartcontract.IntegerType
	case reflect.Slice, reflect.Array:
		return smartcontract.ArrayType
	case reflect.Map, reflect.Struct:
		return smartcontract.MapType
	default:
		return smartcontract.AnyType
	}
}
