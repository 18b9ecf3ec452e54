package parser_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/oicr-gsi/shesmu/compiler/ast"
	"github.com/oicr-gsi/shesmu/compiler/parser"
	"github.com/oicr-gsi/shesmu/compiler/srcfiles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, src string) ast.Decl {
	t.Helper()
	p, err := parser.ParseText("test.shesmu", src)
	require.NoError(t, err)
	require.Len(t, p.Parsed().Decls, 1)
	return p.Parsed().Decls[0]
}

func TestTrivialRun(t *testing.T) {
	olive := parseOne(t, `Olive Run nothing Where x == 1 With value = "ok";`).(*ast.OliveDecl)
	assert.Equal(t, "nothing", olive.Action.Name)
	require.Len(t, olive.Clauses, 1)
	where := olive.Clauses[0].(*ast.WhereClause)
	cmp := where.Expr.(*ast.BinaryExpr)
	assert.Equal(t, "==", cmp.Op)
	assert.Equal(t, "x", cmp.LHS.(*ast.IDExpr).Name)
	assert.Equal(t, int64(1), cmp.RHS.(*ast.IntLiteral).Value)
	require.Len(t, olive.Args, 1)
	assert.Equal(t, "value", olive.Args[0].Name.Name)
	assert.Equal(t, "ok", olive.Args[0].Expr.(*ast.StringExpr).Parts[0].Text)
}

func TestClausesBeforeRun(t *testing.T) {
	src := `Olive Description "all files" Tag qc Tag daily
  Where size > 10Ki
  Group By project Into total = Reduce (a = 0) a + size, n = Count
  Run nothing With { value = "{project}:{total}" };`
	olive := parseOne(t, src).(*ast.OliveDecl)
	assert.Equal(t, "all files", olive.Description)
	require.Len(t, olive.Tags, 2)
	assert.Equal(t, "daily", olive.Tags[1].Name)
	require.Len(t, olive.Clauses, 2)
	where := olive.Clauses[0].(*ast.WhereClause)
	assert.Equal(t, int64(10*1024), where.Expr.(*ast.BinaryExpr).RHS.(*ast.IntLiteral).Value)
	group := olive.Clauses[1].(*ast.GroupClause)
	require.Len(t, group.Into, 2)
	reduce := group.Into[0].Collector.(*ast.ReduceCollector)
	assert.Equal(t, "a", reduce.Accumulator.(*ast.NamePattern).Name.Name)
	assert.IsType(t, &ast.CountCollector{}, group.Into[1].Collector)
	parts := olive.Args[0].Expr.(*ast.StringExpr).Parts
	require.Len(t, parts, 3)
	assert.Equal(t, "project", parts[0].Expr.(*ast.IDExpr).Name)
	assert.Equal(t, ":", parts[1].Text)
}

func TestForExpr(t *testing.T) {
	c := parseOne(t, `Const x = For v In [3, 1, 2]: Where v > 1 Sort v Reverse Squish 3 Fixed 2 While v < 10 Collect List v;`).(*ast.ConstDecl)
	f := c.Expr.(*ast.ForExpr)
	assert.Equal(t, "v", f.Pattern.(*ast.NamePattern).Name.Name)
	assert.IsType(t, &ast.ContainerSource{}, f.Source)
	require.Len(t, f.Ops, 5)
	fixed := f.Ops[4].(*ast.SubsampleOp).Samplers[0].(*ast.FixedSampler)
	assert.NotNil(t, fixed.While)
	assert.IsType(t, &ast.ListCollector{}, f.Collector)
}

func TestForSources(t *testing.T) {
	c := parseOne(t, `Const x = For {a, b} In Input other Dict a = b;`).(*ast.ConstDecl)
	f := c.Expr.(*ast.ForExpr)
	assert.Equal(t, "other", f.Source.(*ast.InputSource).Format.Name)
	assert.Len(t, f.Pattern.(*ast.TuplePattern).Elems, 2)
	c = parseOne(t, `Const y = For i From 0 To 10 Matches Any i == 3;`).(*ast.ConstDecl)
	r := c.Expr.(*ast.ForExpr)
	assert.IsType(t, &ast.RangeSource{}, r.Source)
	assert.Equal(t, "Any", r.Collector.(*ast.MatchesCollector).Quantifier)
}

func TestDefinitions(t *testing.T) {
	src := `Input unix_file;
Timeout 2hours;
RequiredServices sequencer, lims;
TypeAlias pair {integer, string};
Function add(a integer, b: integer) integer = a + b;
Define big(limit integer) Where size > limit;
Olive Call big(5) Run nothing With value = path As string;
`
	p, err := parser.ParseText("defs.shesmu", src)
	require.NoError(t, err)
	decls := p.Parsed().Decls
	require.Len(t, decls, 7)
	assert.Equal(t, "unix_file", decls[0].(*ast.InputDecl).Format.Name)
	assert.Equal(t, int64(7200), decls[1].(*ast.PragmaDecl).Value)
	assert.Len(t, decls[2].(*ast.PragmaDecl).Services, 2)
	assert.Len(t, decls[3].(*ast.TypeAliasDecl).Type.(*ast.TypeTuple).Elems, 2)
	fn := decls[4].(*ast.FuncDecl)
	assert.Len(t, fn.Params, 2)
	assert.Equal(t, "integer", fn.Result.(*ast.TypeName).Name)
	def := decls[5].(*ast.DefineDecl)
	assert.IsType(t, &ast.WhereClause{}, def.Clauses[0])
	olive := decls[6].(*ast.OliveDecl)
	assert.IsType(t, &ast.CallClause{}, olive.Clauses[0])
	assert.IsType(t, &ast.ConvertExpr{}, olive.Args[0].Expr)
}

func TestTypes(t *testing.T) {
	alias := parseOne(t, `TypeAlias t O{b = [string]?, a = Dict[string, In [integer]]}[0];`).(*ast.TypeAliasDecl)
	untuple := alias.Type.(*ast.TypeUntuple)
	obj := untuple.Inner.(*ast.TypeObject)
	require.Len(t, obj.Fields, 2)
	assert.IsType(t, &ast.TypeOptional{}, obj.Fields[0].Type)
	m := obj.Fields[1].Type.(*ast.TypeMap)
	assert.IsType(t, &ast.TypeIn{}, m.Value)
}

func TestLiterals(t *testing.T) {
	c := parseOne(t, `Const x = {a = Date 2019-01-02T03:04:05Z, b = '/tmp/x', c = `+"`1`"+`, d = `+"` `"+`, e = name ~ /^a\/b$/, f = {1, 2.5}[1]};`).(*ast.ConstDecl)
	obj := c.Expr.(*ast.ObjectExpr)
	require.Len(t, obj.Fields, 6)
	assert.Equal(t, time.Date(2019, 1, 2, 3, 4, 5, 0, time.UTC), obj.Fields[0].Value.(*ast.DateLiteral).Value)
	assert.Equal(t, "/tmp/x", obj.Fields[1].Value.(*ast.PathLiteral).Value)
	assert.NotNil(t, obj.Fields[2].Value.(*ast.OptionalExpr).Expr)
	assert.Nil(t, obj.Fields[3].Value.(*ast.OptionalExpr).Expr)
	assert.Equal(t, "^a/b$", obj.Fields[4].Value.(*ast.RegexExpr).Pattern)
	assert.Equal(t, 1, obj.Fields[5].Value.(*ast.IndexExpr).Index)
}

func TestStringEscapesAndFormats(t *testing.T) {
	c := parseOne(t, `Const s = "a\t\{b\} {n:4} {d:%Y-%m-%d}";`).(*ast.ConstDecl)
	parts := c.Expr.(*ast.StringExpr).Parts
	require.Len(t, parts, 4)
	assert.Equal(t, "a\t{b} ", parts[0].Text)
	assert.Equal(t, 4, parts[1].Width)
	assert.Equal(t, "%Y-%m-%d", parts[3].Format)
}

func TestJoinAndDump(t *testing.T) {
	src := `Olive LeftJoin name To Prefix lims_ lims sample_name Where lims_ok Into n = Count
  Dump All To everything
  Dump name, n To some
  Run nothing With value = name;`
	olive := parseOne(t, src).(*ast.OliveDecl)
	join := olive.Clauses[0].(*ast.LeftJoinClause)
	assert.Equal(t, "lims_", join.Prefix.Name)
	assert.Equal(t, "lims", join.Format.Name)
	assert.NotNil(t, join.Where)
	assert.True(t, olive.Clauses[1].(*ast.DumpClause).All)
	assert.Len(t, olive.Clauses[2].(*ast.DumpClause).Exprs, 2)
}

func TestMultipleDiagnostics(t *testing.T) {
	src := `Olive Run nothing Where x == With value = 1;
Const ok = 3;
Olive Run Where y With value = 1;
`
	p, err := parser.ParseText("bad.shesmu", src)
	require.Error(t, err)
	var errs srcfiles.ErrorList
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 2)
	assert.Equal(t, srcfiles.ParseError, errs[0].Kind)
	assert.Equal(t, 1, errs[0].Position().Line)
	assert.Equal(t, 3, errs[1].Position().Line)
	decls := p.Parsed().Decls
	require.Len(t, decls, 3)
	assert.IsType(t, &ast.BadDecl{}, decls[0])
	assert.IsType(t, &ast.ConstDecl{}, decls[1])
	assert.IsType(t, &ast.BadDecl{}, decls[2])
}

func TestUnknownSuffix(t *testing.T) {
	_, err := parser.ParseText("", "Timeout 3fortnights;")
	assert.ErrorContains(t, err, `unknown integer suffix "fortnights"`)
}

func TestASTMarshals(t *testing.T) {
	p, err := parser.ParseText("", `Olive Where x In [1, 2] Run nothing With value = "x";`)
	require.NoError(t, err)
	b, err := json.Marshal(p.Parsed())
	require.NoError(t, err)
	assert.Contains(t, string(b), `"kind":"WhereClause"`)
}
