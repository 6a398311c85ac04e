package variable

import (
	"fmt"

	"github.com/dop251/goja"
)

// JSHost wraps one goja.Runtime. goja.Runtime values are not safe for
// concurrent use, so a host is never shared across goroutines; each
// command that compiles templates (find, replace, unique) builds its own.
type JSHost struct {
	vm *goja.Runtime
}

// NewJSHost constructs a fresh runtime with no record bound yet. JS
// segments compiled against it keep a reference to it and run on it when
// the template is rendered.
func NewJSHost() *JSHost {
	return &JSHost{vm: goja.New()}
}

// compiledJS is a parsed goja program ready to run against a Context's
// bindings on every call to eval.
type compiledJS struct {
	prog *goja.Program
	host *JSHost
}

func compileJS(expr string, host *JSHost) (*compiledJS, error) {
	if host == nil {
		host = NewJSHost()
	}
	prog, err := goja.Compile("", expr, true)
	if err != nil {
		return nil, err
	}
	return &compiledJS{prog: prog, host: host}, nil
}

// eval binds ctx's variables as globals on the host VM and runs the
// compiled expression, converting the JS result back to a Value.
func (c *compiledJS) eval(ctx *Context) (Value, error) {
	vm := c.host.vm
	bindGlobals(vm, ctx)
	res, err := vm.RunProgram(c.prog)
	if err != nil {
		return Undefined(), fmt.Errorf("evaluating expression: %w", err)
	}
	return jsValueToValue(res), nil
}

// bindGlobals exposes every standard variable as a zero/one-arg JS
// function (e.g. `seq()`, `seq_num()`, `attr("key")`, `num(gc_percent())`),
// following the pack's
// goja-as-expression-host convention of binding small accessor closures
// rather than exposing the whole record.
func bindGlobals(vm *goja.Runtime, ctx *Context) {
	set := func(name string, id ID) {
		vm.Set(name, func(call goja.FunctionCall) goja.Value {
			arg := ""
			if len(call.Arguments) > 0 {
				arg = call.Arguments[0].String()
			}
			v, err := ctx.Resolve(Handle{ID: id, Name: name, Arg: arg})
			if err != nil {
				v = Undefined()
			}
			return valueToJS(vm, v)
		})
	}
	for name, id := range standardNames {
		set(name, id)
	}
	set("attr", IDAttr)
	set("opt_attr", IDOptAttr)
	set("attr_del", IDAttrDel)
	set("opt_attr_del", IDOptAttrDel)
	set("meta", IDMeta)
	set("opt_meta", IDOptMeta)
	set("match_group", IDMatchGroup)

	vm.Set("num", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return vm.ToValue(0)
		}
		v := jsValueToValue(call.Arguments[0])
		f, ok := v.Num()
		if !ok {
			return goja.Undefined()
		}
		return vm.ToValue(f)
	})
	vm.Set("bin", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return goja.Undefined()
		}
		v := jsValueToValue(call.Arguments[0])
		f, ok := v.Num()
		if !ok {
			return goja.Undefined()
		}
		return vm.ToValue(Bin(f).String())
	})
}

func valueToJS(vm *goja.Runtime, v Value) goja.Value {
	switch v.Kind {
	case KindInt:
		return vm.ToValue(v.Int)
	case KindFloat:
		return vm.ToValue(v.Flt)
	case KindText:
		return vm.ToValue(v.Text)
	default:
		return goja.Undefined()
	}
}

func jsValueToValue(v goja.Value) Value {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return Undefined()
	}
	export := v.Export()
	switch x := export.(type) {
	case int64:
		return Int(x)
	case float64:
		if x == float64(int64(x)) {
			return Int(int64(x))
		}
		return Float(x)
	case string:
		return Text(x)
	case bool:
		return Bool(x)
	default:
		return Text(v.String())
	}
}
