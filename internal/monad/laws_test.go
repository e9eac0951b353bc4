package monad_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akasaka-miraina/lambdust-sub003/internal/monad"
)

// stringLog is a minimal Monoid[string] for exercising Writer's laws.
type stringLog string

func (s stringLog) Mempty() string     { return "" }
func (s stringLog) Mappend(o string) string { return string(s) + o }

func TestMaybeLaws(t *testing.T) {
	f := func(x int) monad.Maybe[int] { return monad.Just(x + 1) }

	// Left identity: return a >>= f == f a
	left := monad.MaybeBind(monad.Just(5), f)
	right := f(5)
	assert.Equal(t, right, left)

	// Right identity: m >>= return == m
	m := monad.Just(7)
	assert.Equal(t, m, monad.MaybeBind(m, monad.Just[int]))

	// Associativity
	g := func(x int) monad.Maybe[int] { return monad.Just(x * 2) }
	lhs := monad.MaybeBind(monad.MaybeBind(m, f), g)
	rhs := monad.MaybeBind(m, func(x int) monad.Maybe[int] { return monad.MaybeBind(f(x), g) })
	assert.Equal(t, rhs, lhs)
}

func TestEitherLaws(t *testing.T) {
	f := func(x int) monad.Either[string, int] { return monad.Right[string, int](x + 1) }
	pure := func(x int) monad.Either[string, int] { return monad.Right[string, int](x) }

	left := monad.EitherBind(pure(5), f)
	assert.Equal(t, f(5), left)

	m := monad.Right[string, int](7)
	assert.Equal(t, m, monad.EitherBind(m, pure))

	g := func(x int) monad.Either[string, int] { return monad.Right[string, int](x * 2) }
	lhs := monad.EitherBind(monad.EitherBind(m, f), g)
	rhs := monad.EitherBind(m, func(x int) monad.Either[string, int] { return monad.EitherBind(f(x), g) })
	assert.Equal(t, rhs, lhs)

	errM := monad.Left[string, int]("boom")
	assert.Equal(t, errM, monad.EitherBind(errM, f), "Left must short-circuit Bind")
}

func TestIdentityLaws(t *testing.T) {
	f := func(x int) monad.Identity[int] { return monad.NewIdentity(x + 1) }
	m := monad.NewIdentity(3)

	assert.Equal(t, f(3).Run(), monad.IdentityBind(monad.NewIdentity(3), f).Run())
	assert.Equal(t, m.Run(), monad.IdentityBind(m, monad.NewIdentity[int]).Run())
}

func TestWriterBindMappendsLogs(t *testing.T) {
	f := func(x int) monad.Writer[stringLog, int] {
		return monad.NewWriter[stringLog](x+1, stringLog("+1;"))
	}
	m := monad.NewWriter[stringLog](5, stringLog("start;"))

	combined := monad.WriterBind(m, f)
	v, log := combined.Run()
	assert.Equal(t, 6, v)
	assert.Equal(t, stringLog("start;+1;"), log)
}

func TestReaderAskAndLocal(t *testing.T) {
	type env struct{ n int }
	m := monad.ReaderBind(monad.Ask[env](), func(e env) monad.Reader[env, int] {
		return monad.ReaderPure[env](e.n * 2)
	})
	assert.Equal(t, 10, monad.RunReader(m, env{n: 5}))

	localized := monad.Local(func(e env) env { return env{n: e.n + 100} }, m)
	assert.Equal(t, 210, monad.RunReader(localized, env{n: 5}))
}

func TestStateGetModify(t *testing.T) {
	m := monad.StateBind(monad.Get[int](), func(s int) monad.State[int, int] {
		return monad.StateBind(monad.Modify(func(s int) int { return s + 1 }), func(struct{}) monad.State[int, int] {
			return monad.StatePure[int](s * 10)
		})
	})
	v, s := monad.RunState(m, 3)
	assert.Equal(t, 30, v)
	assert.Equal(t, 4, s)
}

func TestContMCallCCEscapes(t *testing.T) {
	result := monad.RunContM(monad.ContMBind(
		monad.ContMCallCC(func(k func(int) monad.ContM[int]) monad.ContM[int] {
			return monad.ContMBind(k(42), func(int) monad.ContM[int] {
				return monad.ContMPure(0) // unreachable once k escapes
			})
		}),
		func(x int) monad.ContM[int] { return monad.ContMPure(x + 1) },
	))
	assert.Equal(t, 43, result)
}

func TestListMNondeterminism(t *testing.T) {
	xs := monad.ListM[int]{1, 2, 3}
	ys := monad.ListBind(xs, func(x int) monad.ListM[int] { return monad.ListM[int]{x, x * 10} })
	assert.Equal(t, monad.ListM[int]{1, 10, 2, 20, 3, 30}, ys)
}

func TestParserMSequencing(t *testing.T) {
	digit := func(in []rune) (rune, []rune, bool) {
		if len(in) == 0 || in[0] < '0' || in[0] > '9' {
			return 0, in, false
		}
		return in[0], in[1:], true
	}
	two := monad.ParserBind(monad.ParserM[rune, rune](digit), func(a rune) monad.ParserM[rune, string] {
		return monad.ParserBind(monad.ParserM[rune, rune](digit), func(b rune) monad.ParserM[rune, string] {
			return monad.ParserPure[rune](string([]rune{a, b}))
		})
	})
	v, rest, ok := two([]rune("42x"))
	assert.True(t, ok)
	assert.Equal(t, "42", v)
	assert.Equal(t, []rune("x"), rest)
}
