package strip

import (
	"errors"
	"strings"
	"testing"
)

func sp(n int) string {
	return strings.Repeat(" ", n)
}

func TestTranspile(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		output string
	}{
		{
			"variable annotation",
			"let x: number = 1 + 2;",
			"let x         = 1 + 2;",
		},
		{
			"interface",
			"interface I { a: number }",
			sp(25),
		},
		{
			"enum",
			"enum Dir { Up, Down }",
			`var Dir = (function (Dir) {Dir[(Dir["Up"] = 0)] = "Up";Dir[(Dir["Down"] = 1)] = "Down";return Dir;})(Dir || {});`,
		},
		{
			"enum numbering",
			"enum E { A = 5, B, C = 1, D }",
			`var E = (function (E) {E[(E["A"] = 5)] = "A";E[(E["B"] = 6)] = "B";E[(E["C"] = 1)] = "C";E[(E["D"] = 2)] = "D";return E;})(E || {});`,
		},
		{
			"multi-line enum",
			"enum E {\n  A,\n  B\n}",
			"var E = (function (E) {\n  E[(E[\"A\"] = 0)] = \"A\";\n  E[(E[\"B\"] = 1)] = \"B\";\nreturn E;})(E || {});",
		},
		{
			"const enum",
			"const enum E { A }",
			sp(6) + `var E = (function (E) {E[(E["A"] = 0)] = "A";return E;})(E || {});`,
		},
		{
			"constructor parameter property",
			"class A { constructor(public x: number) {} }",
			"class A { constructor(" + sp(7) + "x" + sp(8) + ") {this.x=x;} }",
		},
		{
			"parameter property after super",
			"class B extends A { constructor(private y) { super(); } }",
			"class B extends A { constructor(" + sp(8) + "y) { super(); this.y=y;} }",
		},
		{
			"parameter property between super and the next statement",
			"class B extends A { constructor(public x) { super(); other(); } }",
			"class B extends A { constructor(" + sp(7) + "x) { super(); this.x=x;other(); } }",
		},
		{
			"parameter property after unterminated super",
			"class A extends B { constructor(public x) { super() } }",
			"class A extends B { constructor(" + sp(7) + "x) { super() ;this.x=x;} }",
		},
		{
			"generic call",
			"f<T>();",
			"f   ();",
		},
		{
			"comparisons",
			"a < b > c;",
			"a < b > c;",
		},
		{
			"type alias",
			"type Point = {\n  x: number;\n  y: number;\n};\nconst p: Point = { x: 1, y: 2 };",
			sp(14) + "\n" + sp(12) + "\n" + sp(12) + "\n" + sp(2) + "\n" + "const p        = { x: 1, y: 2 };",
		},
		{
			"arrow with optional parameter",
			"const f = (a?: string): void => {};",
			"const f = (a" + sp(9) + ")" + sp(7) + "=> {};",
		},
		{
			"class modifiers",
			"class C { private readonly n: number = 1; static s?: string; }",
			"class C { " + sp(17) + "n" + sp(9) + "= 1; static s" + sp(9) + "; }",
		},
		{
			"declare",
			"declare const VERSION: string;\nconsole.log(VERSION);",
			sp(len("declare const VERSION: string;")) + "\nconsole.log(VERSION);",
		},
		{
			"as",
			"const n = (x as any).length;",
			"const n = (x" + sp(7) + ").length;",
		},
		{
			"double as",
			"x = y as unknown as T;",
			"x = y" + sp(16) + ";",
		},
		{
			"satisfies",
			"const c = { a: 1 } satisfies R;",
			"const c = { a: 1 } " + sp(11) + ";",
		},
		{
			"non-null",
			"a!.b;",
			"a .b;",
		},
		{
			"generic function",
			"function id<T>(x: T): T { return x; }",
			"function id" + sp(3) + "(x" + sp(3) + ")" + sp(4) + "{ return x; }",
		},
		{
			"new with type arguments",
			"new Map<string, number>();",
			"new Map" + sp(16) + "();",
		},
		{
			"destructuring and rest parameters",
			"function f({ a, b = 2 }: Opts, ...rest: number[]) {}",
			"function f({ a, b = 2 }" + sp(6) + ", ...rest" + sp(10) + ") {}",
		},
		{
			"abstract class",
			"abstract class S { abstract area(): number; }",
			sp(9) + "class S { " + sp(25) + "}",
		},
		{
			"accessor and static block",
			"class K { static { init(); } get v(): number { return 1; } }",
			"class K { static { init(); } get v()" + sp(9) + "{ return 1; } }",
		},
		{
			"index signature",
			"class D { [key: string]: any; x = 1; }",
			"class D { " + sp(20) + "x = 1; }",
		},
		{
			"export default class",
			"export default class Foo<T> implements Bar {}",
			"export default class Foo" + sp(19) + "{}",
		},
		{
			"catch annotation",
			"try { a(); } catch (e: unknown) { }",
			"try { a(); } catch (e" + sp(9) + ") { }",
		},
		{
			"type-only import",
			`import type { T } from "./t";`,
			sp(len(`import type { T } from "./t";`)),
		},
		{
			"inline type specifier",
			`import { type A, b } from "m";`,
			"import { " + sp(8) + `b } from "m";`,
		},
		{
			"type-only export",
			`export type { T } from "./t";`,
			sp(len(`export type { T } from "./t";`)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transpile(tt.input)
			if err != nil {
				t.Fatalf("Transpile(%q): %v", tt.input, err)
			}
			if got != tt.output {
				t.Errorf("Transpile(%q)\n got %q\nwant %q", tt.input, got, tt.output)
			}
		})
	}
}

func TestTranspileKeepsJavaScript(t *testing.T) {
	inputs := []string{
		"const xs = [1, 2, 3].map((x) => x * 2);\nif (xs.length > 2) {\n  console.log(`len ${xs.length}`);\n} else {\n  throw new Error(\"short\");\n}\n",
		"const s = `a ${b} // c`;",
		"const r = /ab+c/gi.test(s);",
		"switch (x) { case 1: f(); break; default: g(); }",
		"for (const [k, v] of Object.entries(m)) {}",
		"for (let i = 0, n = xs.length; i < n; i++) { total += xs[i]; }",
		"for (const k in obj) delete obj[k];",
		"x = a ? b : c;",
		"a?.b?.(c);",
		"outer: for (;;) { break outer; }",
		"do { i++; } while (i < 3);",
		"async function* gen() { yield* other(); await x; }",
		"const o = { [k]: 1, 'a-b': 2, get v() { return 1; }, m() {}, ...rest };",
		"export { a as b, c };",
		"export * from \"./all.js\";",
		"import def, { a as b } from \"./mod.js\";",
		"import * as ns from \"./ns.js\";",
		"import \"./side.js\";",
		"const m = await import(\"./lazy.js\");",
		"class Q extends Base { #n = 1; static create() { return new Q(); } }",
		"const n = 0xff + 1_000 + .5 + 10n;",
		"tag`x ${y}`;",
		"a ??= b ** 2;",
		"function f() {}\nfunction g() {}",
		"let a = 1\nlet b = 2\n",
		"if (a < b && c > (d)) {}",
		"ok = i < n || i > (max - 1);",
		"x = a < b &= c > (d);",
	}
	for _, input := range inputs {
		got, err := Transpile(input)
		if err != nil {
			t.Errorf("Transpile(%q): %v", input, err)
			continue
		}
		if got != input {
			t.Errorf("Transpile(%q)\n got %q", input, got)
		}
	}
}

func TestTranspilePreservesLines(t *testing.T) {
	input := `import type { Options } from "./options";

interface Shape {
  area(): number;
  readonly name?: string;
}

type Pair<A, B> = [first: A, second?: B];

export enum Kind {
  Circle = 1,
  Square,
}

export class Circle implements Shape {
  constructor(private readonly r: number) {}

  area(): number {
    return Math.PI * this.r ** 2;
  }
}

declare module "ext" {
  export function f(x: number): void;
}

const shapes: Array<Shape> = [new Circle(1)];
`
	got, err := Transpile(input)
	if err != nil {
		t.Fatalf("Transpile: %v", err)
	}
	inLines := strings.Split(input, "\n")
	outLines := strings.Split(got, "\n")
	if len(inLines) != len(outLines) {
		t.Fatalf("got %d lines, want %d", len(outLines), len(inLines))
	}
	for i, line := range outLines {
		if strings.TrimSpace(inLines[i]) == "" && strings.TrimSpace(line) != "" {
			t.Errorf("line %d: blank line became %q", i+1, line)
		}
	}
	for _, want := range []string{
		"export var Kind = (function (Kind) {",
		`Kind[(Kind["Square"] = 2)] = "Square";`,
		"this.r=r;",
		"return Math.PI * this.r ** 2;",
		"const shapes" + sp(15) + "= [new Circle(1)];",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %q:\n%s", want, got)
		}
	}
	for _, gone := range []string{"interface", "Options", "declare", "implements", "readonly"} {
		if strings.Contains(got, gone) {
			t.Errorf("output still contains %q:\n%s", gone, got)
		}
	}
}

func TestTranspileIsDeterministic(t *testing.T) {
	input := "enum E { A, B }\nconst f = <T,>(x: T): T => x;\nf<number>(1);"
	first, err := Transpile(input)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		again, err := Transpile(input)
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatalf("run %d: got %q, want %q", i, again, first)
		}
	}
}

func TestTranspileErrors(t *testing.T) {
	_, err := Transpile("let = 5;")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("got %v, want *ParseError", err)
	}
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("errors.Is(err, ErrSyntax) = false")
	}
	want := `could not parse VarDecl at 1:5, got "= 5;"[..], expected one of: "[" "{" <identifier>`
	if perr.Error() != want {
		t.Errorf("got %q\nwant %q", perr.Error(), want)
	}
	if perr.Pos.Offset != 4 {
		t.Errorf("got offset %d, want 4", perr.Pos.Offset)
	}
}

func TestTranspileErrorPosition(t *testing.T) {
	_, err := Transpile("let a = 1;\nlet b = ;\n", WithFile("x.ts"))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("got %v, want *ParseError", err)
	}
	if perr.Pos.Line != 2 || perr.Pos.Column != 9 {
		t.Errorf("got %d:%d, want 2:9", perr.Pos.Line, perr.Pos.Column)
	}
	if !strings.Contains(perr.Error(), "x.ts:2:9") {
		t.Errorf("error does not name the file: %s", perr)
	}
}

func TestTranspileTrailingInput(t *testing.T) {
	_, err := Transpile("let x = 1; }")
	if !errors.Is(err, ErrTrailingInput) {
		t.Fatalf("got %v, want ErrTrailingInput", err)
	}
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("trailing input is not a syntax error")
	}
	var perr *ParseError
	errors.As(err, &perr)
	if perr.Rule != "top-level" {
		t.Errorf("got rule %q, want top-level", perr.Rule)
	}
}

func TestRecover(t *testing.T) {
	input := "let a = 1;\nlet b = ;\nlet c = 3;"
	var reported []*ParseError
	got, err := Transpile(input, WithRecover(), WithErrorHandler(func(e *ParseError) {
		reported = append(reported, e)
	}))
	if err != nil {
		t.Fatalf("Transpile: %v", err)
	}
	if got != input {
		t.Errorf("got %q, want %q", got, input)
	}
	if len(reported) != 1 {
		t.Fatalf("got %d errors, want 1", len(reported))
	}
	if reported[0].Pos.Line != 2 {
		t.Errorf("got line %d, want 2", reported[0].Pos.Line)
	}

	if _, err := Transpile(input); err == nil {
		t.Error("strict mode accepted a malformed statement")
	}
}

func TestRecoverInsideBlock(t *testing.T) {
	input := "function f() {\n  let x: number = ;\n  return 1;\n}\nconst y: string = \"ok\";"
	count := 0
	got, err := Transpile(input, WithRecover(), WithErrorHandler(func(*ParseError) { count++ }))
	if err != nil {
		t.Fatalf("Transpile: %v", err)
	}
	if count != 1 {
		t.Errorf("got %d errors, want 1", count)
	}
	if !strings.HasSuffix(got, "const y         = \"ok\";") {
		t.Errorf("statement after the error was not transpiled: %q", got)
	}
}

func TestImportTransform(t *testing.T) {
	var seen []string
	transform := func(specifier string) (string, error) {
		seen = append(seen, specifier)
		return strings.TrimSuffix(specifier, ".ts") + ".js", nil
	}
	input := "import { a } from \"./a.ts\";\nimport type { T } from './t.ts';\nexport * from './b.ts';"
	got, err := Transpile(input, WithImportTransform(transform))
	if err != nil {
		t.Fatalf("Transpile: %v", err)
	}
	want := "import { a } from \"./a.js\";\n" + sp(len("import type { T } from './t.ts';")) + "\nexport * from './b.js';"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
	if len(seen) != 2 || seen[0] != "./a.ts" || seen[1] != "./b.ts" {
		t.Errorf("transform called with %v", seen)
	}
}

func TestImportTransformError(t *testing.T) {
	errFetch := errors.New("fetch failed")
	_, err := Transpile(`import "./x";`, WithRecover(), WithImportTransform(func(string) (string, error) {
		return "", errFetch
	}))
	if !errors.Is(err, errFetch) {
		t.Errorf("got %v, want wrapped fetch error", err)
	}
}

func TestTrace(t *testing.T) {
	var records []TraceRecord
	if _, err := Transpile("let x: T;", WithTrace(func(r TraceRecord) {
		records = append(records, r)
	})); err != nil {
		t.Fatal(err)
	}
	if len(records) == 0 {
		t.Fatal("no trace records")
	}
	first := records[0]
	if first.Action != "eat" || first.Text != "let " || first.Line != 1 || first.Col != 1 {
		t.Errorf("first record: %+v", first)
	}
	var skipped bool
	for _, r := range records {
		if r.Action == "skip" && r.Text == ": " {
			skipped = true
			if r.Rules[len(r.Rules)-1] != "VarDecl" {
				t.Errorf("skip recorded in %v", r.Rules)
			}
		}
	}
	if !skipped {
		t.Error("no skip record for the annotation")
	}
}
