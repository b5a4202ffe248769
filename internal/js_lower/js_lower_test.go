package js_lower

import (
	"strings"
	"testing"

	"github.com/evanw/classvars/internal/config"
	"github.com/evanw/classvars/internal/js_parser"
	"github.com/evanw/classvars/internal/js_printer"
	"github.com/evanw/classvars/internal/logger"
	"github.com/evanw/classvars/internal/runtime"
	"github.com/evanw/classvars/internal/test"
)

type lowerTestResult struct {
	js     string
	errors string
	all    string
	result Result
	ok     bool
}

func lowerForTest(t *testing.T, contents string, options config.Options) lowerTestResult {
	t.Helper()
	log := logger.NewDeferLog()
	source := test.SourceForTest(contents)
	tree, ok := js_parser.Parse(log, source, js_parser.OptionsFromConfig(&options))
	if !ok {
		t.Fatalf("Parse error in %q", contents)
	}
	var r lowerTestResult
	r.result, r.ok = Lower(log, source, &tree)
	for _, msg := range log.Done() {
		text := msg.String(logger.OutputOptions{}, logger.TerminalInfo{})
		if msg.Kind == logger.Error {
			r.errors += text
		}
		r.all += text
	}
	if r.ok {
		r.js = string(js_printer.Print(tree, js_printer.Options{}).JS)
	}
	return r
}

func expectLoweredCommon(t *testing.T, contents string, expected string, options config.Options) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		r := lowerForTest(t, contents, options)
		test.AssertEqualWithDiff(t, r.errors, "")
		if !r.ok {
			t.Fatal("Lower error")
		}
		test.AssertEqualWithDiff(t, r.js, expected)
	})
}

func expectLowered(t *testing.T, contents string, expected string) {
	t.Helper()
	expectLoweredCommon(t, contents, expected, config.Options{})
}

func expectLoweredTS(t *testing.T, contents string, expected string) {
	t.Helper()
	expectLoweredCommon(t, contents, expected, config.Options{
		TS: config.TSOptions{Parse: true},
	})
}

// Checks both errors and warnings
func expectLowerMessages(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		r := lowerForTest(t, contents, config.Options{})
		test.AssertEqualWithDiff(t, r.all, expected)
	})
}

func expectLowerError(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		r := lowerForTest(t, contents, config.Options{})
		test.AssertEqualWithDiff(t, r.errors, expected)
		test.AssertEqual(t, r.ok, false)
	})
}

func TestBaseClass(t *testing.T) {
	expectLowered(t, "class A { let x = 1; m() { return this::x } }",
		`class A {
  constructor() {
    _x.set(this, { writable: true, value: 1 });
  }
  m() {
    return __instanceVarGet(this, _x);
  }
}
const _x = new WeakMap();
`)

	expectLowered(t, "class A { const y; m() { return this::y } }",
		`class A {
  constructor() {
    _y.set(this, { writable: false, value: void 0 });
  }
  m() {
    return __instanceVarGet(this, _y);
  }
}
const _y = new WeakMap();
`)

	expectLowered(t, "class A { let x = 1; constructor(b) { this.b = b } m() { return this::x } }",
		`class A {
  constructor(b) {
    _x.set(this, { writable: true, value: 1 });
    this.b = b;
  }
  m() {
    return __instanceVarGet(this, _x);
  }
}
const _x = new WeakMap();
`)

	// Initializers run in declaration order
	expectLowered(t, "class A { let a = f(), b; const c = g(); m() { return [this::a, this::b, this::c] } }",
		`class A {
  constructor() {
    _a.set(this, { writable: true, value: f() });
    _b.set(this, { writable: true, value: void 0 });
    _c.set(this, { writable: false, value: g() });
  }
  m() {
    return [__instanceVarGet(this, _a), __instanceVarGet(this, _b), __instanceVarGet(this, _c)];
  }
}
const _a = new WeakMap();
const _b = new WeakMap();
const _c = new WeakMap();
`)

	// Classes without instance variables are left alone
	expectLowered(t, "class A { m() { return 1 } }", "class A {\n  m() {\n    return 1;\n  }\n}\n")
}

func TestDerivedClass(t *testing.T) {
	expectLowered(t, "class B extends A { let x = 1; m() { return this::x } }",
		`class B extends A {
  constructor(...args) {
    super(...args);
    _x.set(this, { writable: true, value: 1 });
  }
  m() {
    return __instanceVarGet(this, _x);
  }
}
const _x = new WeakMap();
`)

	// Every bare "super()" call gets its own copy of the initializers
	expectLowered(t, "class B extends A { let x = 1; constructor(a) { if (a) super(1); else { super(2) } foo(this::x) } }",
		`class B extends A {
  constructor(a) {
    if (a) {
      super(1);
      _x.set(this, { writable: true, value: 1 });
    } else {
      super(2);
      _x.set(this, { writable: true, value: 1 });
    }
    foo(__instanceVarGet(this, _x));
  }
}
const _x = new WeakMap();
`)

	// "super()" inside an expression keeps its value
	expectLowered(t, "class B extends A { let x = 1; constructor() { foo(super()) } m() { this::x } }",
		`class B extends A {
  constructor() {
    foo((super(), _x.set(this, { writable: true, value: 1 }), this));
  }
  m() {
    __instanceVarGet(this, _x);
  }
}
const _x = new WeakMap();
`)

	// Calls inside arrow functions are not bare calls
	expectLowered(t, "class B extends A { let x = 1; constructor() { super(); const f = () => super(); } m() { this::x } }",
		`class B extends A {
  constructor() {
    super();
    _x.set(this, { writable: true, value: 1 });
    const f = () => super();
  }
  m() {
    __instanceVarGet(this, _x);
  }
}
const _x = new WeakMap();
`)
}

func TestAccessForms(t *testing.T) {
	expectLowered(t, "class A { let x = 0; m(o) { o::x = 1; o::x += 2; this::x -= 1 } }",
		`class A {
  constructor() {
    _x.set(this, { writable: true, value: 0 });
  }
  m(o) {
    __instanceVarSet(o, _x, 1);
    __instanceVarSet(o, _x, __instanceVarGet(o, _x) + 2);
    __instanceVarSet(this, _x, __instanceVarGet(this, _x) - 1);
  }
}
const _x = new WeakMap();
`)

	expectLowered(t, "class A { let x = 0; m() { a()::x *= 2 } }",
		`class A {
  constructor() {
    _x.set(this, { writable: true, value: 0 });
  }
  m() {
    var _a;
    __instanceVarSet(_a = a(), _x, __instanceVarGet(_a, _x) * 2);
  }
}
const _x = new WeakMap();
`)

	expectLowered(t, "class A { let x = 0; m() { ++this::x; this::x--; return a()::x++ } }",
		`class A {
  constructor() {
    _x.set(this, { writable: true, value: 0 });
  }
  m() {
    var _a, _b, _c;
    __instanceVarSet(this, _x, +__instanceVarGet(this, _x) + 1);
    __instanceVarSet(this, _x, (_a = +__instanceVarGet(this, _x)) - 1), _a;
    return __instanceVarSet(_b = a(), _x, (_c = +__instanceVarGet(_b, _x)) + 1), _c;
  }
}
const _x = new WeakMap();
`)

	expectLowered(t, "class A { let x; m() { this::x ??= 1; this::x ||= 2 } }",
		`class A {
  constructor() {
    _x.set(this, { writable: true, value: void 0 });
  }
  m() {
    __instanceVarGet(this, _x) ?? __instanceVarSet(this, _x, 1);
    __instanceVarGet(this, _x) || __instanceVarSet(this, _x, 2);
  }
}
const _x = new WeakMap();
`)

	expectLowered(t, "class A { let x; m(list) { for (this::x of list) log() } }",
		`class A {
  constructor() {
    _x.set(this, { writable: true, value: void 0 });
  }
  m(list) {
    for (const _a of list) {
      __instanceVarSet(this, _x, _a);
      log();
    }
  }
}
const _x = new WeakMap();
`)
}

func TestCalls(t *testing.T) {
	expectLowered(t, "class A { const f = () => 1; m() { return this::f(1) } }",
		`class A {
  constructor() {
    _f.set(this, { writable: false, value: () => 1 });
  }
  m() {
    return __instanceVarGet(this, _f).call(this, 1);
  }
}
const _f = new WeakMap();
`)

	// The receiver is evaluated once
	expectLowered(t, "class A { let f; m() { return g()::f(1) } }",
		`class A {
  constructor() {
    _f.set(this, { writable: true, value: void 0 });
  }
  m() {
    var _a;
    return __instanceVarGet(_a = g(), _f).call(_a, 1);
  }
}
const _f = new WeakMap();
`)
}

func TestNestedClasses(t *testing.T) {
	// The inner declaration of "x" hides the outer one
	expectLowered(t, `class Outer {
  let x = 1;
  m() {
    return class Inner {
      let x = 2;
      n(o) { return this::x + o::x }
    }
  }
  n() { return this::x }
}`,
		`class Outer {
  constructor() {
    _x.set(this, { writable: true, value: 1 });
  }
  m() {
    return (() => {
      class Inner {
        constructor() {
          _x2.set(this, { writable: true, value: 2 });
        }
        n(o) {
          return __instanceVarGet(this, _x2) + __instanceVarGet(o, _x2);
        }
      }
      const _x2 = new WeakMap();
      return Inner;
    })();
  }
  n() {
    return __instanceVarGet(this, _x);
  }
}
const _x = new WeakMap();
`)

	// Names that aren't redeclared are still visible
	expectLowered(t, "class A { let x = 1; m() { return class { n(a) { return a::x } } } }",
		`class A {
  constructor() {
    _x.set(this, { writable: true, value: 1 });
  }
  m() {
    return class {
      n(a) {
        return __instanceVarGet(a, _x);
      }
    };
  }
}
const _x = new WeakMap();
`)
}

func TestClassExpressionNames(t *testing.T) {
	expectLowered(t, "let A = class { let x = 1; m() { return this::x } }",
		`let A = (() => {
  class A {
    constructor() {
      _x.set(this, { writable: true, value: 1 });
    }
    m() {
      return __instanceVarGet(this, _x);
    }
  }
  const _x = new WeakMap();
  return A;
})();
`)

	expectLowered(t, "foo(class { let x = 1; m() { return this::x } })",
		`foo((() => {
  class _class {
    constructor() {
      _x.set(this, { writable: true, value: 1 });
    }
    m() {
      return __instanceVarGet(this, _x);
    }
  }
  const _x = new WeakMap();
  return _class;
})());
`)

	// The inferred name would hide the superclass
	expectLowered(t, "let A = 1; A = class extends A { let x = 1; m() { return this::x } }",
		`let A = 1;
A = (() => {
  class _class extends A {
    constructor(...args) {
      super(...args);
      _x.set(this, { writable: true, value: 1 });
    }
    m() {
      return __instanceVarGet(this, _x);
    }
  }
  const _x = new WeakMap();
  return _class;
})();
`)

	// The inferred name would hide the variable from the class body, which
	// must still see later assignments to it
	expectLowered(t, "let A = class { let x = 1; m() { return A + this::x } }; A = 2",
		`let A = (() => {
  class _class {
    constructor() {
      _x.set(this, { writable: true, value: 1 });
    }
    m() {
      return A + __instanceVarGet(this, _x);
    }
  }
  const _x = new WeakMap();
  return _class;
})();
A = 2;
`)
	expectLowered(t, "let A = class { static let count = A; let x = 1; m() { return this::x } }",
		`let A = (() => {
  let count = A;
  class _class {
    constructor() {
      _x.set(this, { writable: true, value: 1 });
    }
    m() {
      return __instanceVarGet(this, _x);
    }
  }
  const _x = new WeakMap();
  return _class;
})();
`)

	// A local with the same name in a method is a different variable
	expectLowered(t, "let A = class { let x = 1; m() { let A = 2; return A + this::x } }",
		`let A = (() => {
  class A {
    constructor() {
      _x.set(this, { writable: true, value: 1 });
    }
    m() {
      let A = 2;
      return A + __instanceVarGet(this, _x);
    }
  }
  const _x = new WeakMap();
  return A;
})();
`)
}

func TestClassVariables(t *testing.T) {
	expectLowered(t, "class Counter { static let count = 0; let id = count++; m() { return this::id } }",
		`let Counter = (() => {
  let count = 0;
  class Counter {
    constructor() {
      _id.set(this, { writable: true, value: count++ });
    }
    m() {
      return __instanceVarGet(this, _id);
    }
  }
  const _id = new WeakMap();
  return Counter;
})();
`)

	expectLowered(t, "class A { static const c; static m() { return c } }",
		`let A = (() => {
  const c = void 0;
  class A {
    static m() {
      return c;
    }
  }
  return A;
})();
`)

	// Class variables can't hide anything the class heritage uses
	expectLowered(t, "let count = 1; class A extends mixin(count) { static let count = 2 }",
		`let count = 1;
let A = (() => {
  let _count = 2;
  class A extends mixin(count) {
  }
  return A;
})();
`)
}

func TestClassNameTDZ(t *testing.T) {
	expectLowered(t, "class Foo { static const a = Foo.b; static let c = () => Foo }",
		`let Foo = (() => {
  const a = (__classNameTDZError("Foo"), Foo).b;
  let c = () => Foo;
  class Foo {
  }
  return Foo;
})();
`)

	expectLowered(t, "class Foo { let x = Foo; [Foo]() { return this::x } }",
		`class Foo {
  constructor() {
    _x.set(this, { writable: true, value: Foo });
  }
  [(__classNameTDZError("Foo"), Foo)]() {
    return __instanceVarGet(this, _x);
  }
}
const _x = new WeakMap();
`)
}

func TestInitializerShadowing(t *testing.T) {
	// The constructor argument would hide the variable in the initializer
	expectLowered(t, "let a = 1; class A { let x = a; constructor(a) { this.a = a } m() { return this::x } }",
		`let a = 1;
class A {
  constructor(_a) {
    _x.set(this, { writable: true, value: a });
    this.a = _a;
  }
  m() {
    return __instanceVarGet(this, _x);
  }
}
const _x = new WeakMap();
`)

	// Declarations in nested functions don't matter
	expectLowered(t, "let a = 1; class A { let x = a; constructor() { const f = (a) => a } m() { return this::x } }",
		`let a = 1;
class A {
  constructor() {
    _x.set(this, { writable: true, value: a });
    const f = (a) => a;
  }
  m() {
    return __instanceVarGet(this, _x);
  }
}
const _x = new WeakMap();
`)

	expectLowered(t, "let args = []; class B extends A { let x = args; m() { return this::x } }",
		`let args = [];
class B extends A {
  constructor(..._args) {
    super(..._args);
    _x.set(this, { writable: true, value: args });
  }
  m() {
    return __instanceVarGet(this, _x);
  }
}
const _x = new WeakMap();
`)
}

func TestTypeScriptAnnotations(t *testing.T) {
	expectLoweredTS(t, "class A { let x: number = 1; m(): number { return this::x } }",
		`class A {
  constructor() {
    _x.set(this, { writable: true, value: 1 });
  }
  m() {
    return __instanceVarGet(this, _x);
  }
}
const _x = new WeakMap();
`)
}

func TestLowerErrors(t *testing.T) {
	expectLowerError(t, "class A { let x; let x }", "<stdin>: error: Duplicate class instance variable \"x\"\n")
	expectLowerError(t, "class A { let x; const x = 1 }", "<stdin>: error: Duplicate class instance variable \"x\"\n")
	expectLowerError(t, "class A { static let x; static let x }", "<stdin>: error: Duplicate class variable \"x\"\n")
	expectLowerError(t, "@dec class A {}", "<stdin>: error: Decorators are not supported\n")
	expectLowerError(t, "class A { @dec m() {} }", "<stdin>: error: Decorators are not supported\n")
	expectLowerError(t, "class A { x = 1 }", "<stdin>: error: Public class properties are not supported\n")
	expectLowerError(t, "class A { static x = 1 }", "<stdin>: error: Public class properties are not supported\n")
	expectLowerError(t, "class A { m() { return this::y } }", "<stdin>: error: Unknown instance variable \"y\"\n")
	expectLowerError(t, "a::x", "<stdin>: error: Unknown instance variable \"x\"\n")
	expectLowerError(t, "class A { let value = 1; m() { return this::valeu + this::value } }",
		"<stdin>: error: Unknown instance variable \"valeu\" (did you mean \"value\"?)\n")

	// Names declared by a nested class aren't visible outside of it
	expectLowerError(t, "class A { m() { class B { let y; n() { this::y } } return this::y } }",
		"<stdin>: error: Unknown instance variable \"y\"\n")

	// Every unknown name is reported
	expectLowerError(t, "class A { m() { this::a; this::b } }",
		"<stdin>: error: Unknown instance variable \"a\"\n<stdin>: error: Unknown instance variable \"b\"\n")
}

func TestLowerWarnings(t *testing.T) {
	expectLowerMessages(t, "class A { let x = 1 }", "<stdin>: warning: Instance variable \"x\" is never used\n")
	expectLowerMessages(t, "class A { let x = 1; m() { this::x } }", "")
	expectLowerMessages(t, "class B extends A { let x = 1; constructor() { (() => super())() } m() { this::x } }",
		"<stdin>: warning: Instance variables are not initialized by \"super()\" calls inside arrow functions\n")
	expectLowerMessages(t, "class A { static let c = 1; [f()]() {} }",
		"<stdin>: warning: This computed key is evaluated after the class variables of its class are initialized\n")
	expectLowerMessages(t, "class A { static let c = 1; ['k']() {} }", "")

	// Storage for instance variables only exists once the class is defined
	expectLowerMessages(t, "class A { let x = 1; [this::x]() {} }",
		"<stdin>: warning: Instance variable \"x\" is used before the class has been defined\n")
	expectLowerMessages(t, "class A { let x = 1; static let y = o::x; m() { return this::x } }",
		"<stdin>: warning: Instance variable \"x\" is used before the class has been defined\n")
	expectLowerMessages(t, "class A { let x = 1; [this::x]() {} }; class B { let x = 1; m() { return this::x } }",
		"<stdin>: warning: Instance variable \"x\" is used before the class has been defined\n")
	expectLowerMessages(t, "class A { let x = 1; m() { class B { [this::x]() {} } } }", "")
}

func TestNoPartialOutput(t *testing.T) {
	log := logger.NewDeferLog()
	source := test.SourceForTest("class A { let x = 1; m() { return this::x + this::y } }")
	tree, ok := js_parser.Parse(log, source, js_parser.Options{})
	test.AssertEqual(t, ok, true)
	result, ok := Lower(log, source, &tree)
	test.AssertEqual(t, ok, false)
	test.AssertEqual(t, len(result.UsedHelpers), 0)
	test.AssertEqual(t, log.HasErrors(), true)
}

func TestUsedHelpers(t *testing.T) {
	r := lowerForTest(t, "class A { let x = 1; m() { return this::x } }", config.Options{})
	test.AssertEqual(t, strings.Join(r.result.UsedHelpers, ","), runtime.InstanceVarGet)

	r = lowerForTest(t, "class Foo { static const a = Foo; let x; m() { this::x = this::x } }", config.Options{})
	test.AssertEqual(t, strings.Join(r.result.UsedHelpers, ","),
		strings.Join([]string{runtime.InstanceVarGet, runtime.InstanceVarSet, runtime.ClassNameTDZError}, ","))

	r = lowerForTest(t, "class A { m() {} }", config.Options{})
	test.AssertEqual(t, len(r.result.UsedHelpers), 0)
}

// Each call to "Lower" starts naming from scratch
func TestNamesArePerUnit(t *testing.T) {
	for i := 0; i < 2; i++ {
		r := lowerForTest(t, "class A { let x = 1; m() { return this::x } }", config.Options{})
		if !strings.Contains(r.js, "const _x = new WeakMap();") {
			t.Fatalf("Unexpected output:\n%s", r.js)
		}
	}
}

func TestTempNames(t *testing.T) {
	test.AssertEqual(t, tempName(0), "a")
	test.AssertEqual(t, tempName(25), "z")
	test.AssertEqual(t, tempName(26), "aa")
	test.AssertEqual(t, tempName(27), "ab")
	test.AssertEqual(t, tempName(26+26*26), "aaa")

	g := nameGenerator{used: map[string]bool{"_x": true, "_a": true}}
	test.AssertEqual(t, g.generate("x"), "_x2")
	test.AssertEqual(t, g.generate("x"), "_x3")
	test.AssertEqual(t, g.generate("__y"), "_y")
	test.AssertEqual(t, g.temp(), "_b")
}
