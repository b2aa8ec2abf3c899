// Package intrinsics seeds the process-wide built-in types, values,
// entities, and properties into the scope enclosing a Program's global
// scope before parsing.
// Everything here is constructed once per compilation and never mutated
// afterwards.
package intrinsics

import (
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/apm"
	"github.com/TheIttyBittyGalaxy/gambit-sub000/internal/scope"
)

// typeNames is the fixed set of intrinsic types seeded into every
// program: str, num (real), int (signed), amt (non-negative), bool.
// `none` has no backing type of its own: the unique none value is its
// own pattern, so no separate IntrinsicType is constructed or declared
// for it, which is what lets a bare `none` resolve correctly in both
// pattern and expression position without a name clash.
var typeNames = []string{"str", "num", "int", "amt", "bool"}

// Seed constructs every intrinsic type, value, entity and property and
// declares them into program's global scope, then replaces program.Global
// with a fresh, empty child of that scope. It is called once per
// compilation, before parsing begins, so the parser can tag literal
// expressions against the seeded IntrinsicType instances.
func Seed(program *apm.Program) {
	types := make(map[string]*apm.IntrinsicType, len(typeNames))

	for _, name := range typeNames {
		t := &apm.IntrinsicType{Name_: name}
		types[name] = t
		scope.Declare(program.Global, t)
	}

	none := &apm.IntrinsicValue{Name_: "none"}
	scope.Declare(program.Global, none)

	seedPlayer(program, types)
	seedGame(program, types)

	// Source-level declarations go into a fresh global scope whose parent
	// holds the intrinsics, so a program's own `entity Player` shadows the
	// intrinsic one instead of clashing with it.
	program.Global = apm.NewScope(program.Global)
}

// seedPlayer declares the `Player` entity and its `number(Player player)`
// state property.
func seedPlayer(program *apm.Program, types map[string]*apm.IntrinsicType) {
	player := &apm.Entity{Name_: "Player"}
	scope.Declare(program.Global, player)

	own := apm.NewScope(program.Global)
	param := &apm.Variable{Name_: "player", Pattern: player}
	scope.Declare(own, param)

	number := &apm.StateProperty{
		Name_:  "number",
		Result: types["int"],
		Own:    own,
		Params: []*apm.Variable{param},
	}
	scope.Declare(program.Global, number)
}

// seedGame declares a second intrinsic entity, `Game`, with a
// `str(Game game).name` state property and a
// `bool(Game g1, Game g2).same_game` function property, giving the
// overload table more than one user-extendable overload family.
func seedGame(program *apm.Program, types map[string]*apm.IntrinsicType) {
	game := &apm.Entity{Name_: "Game"}
	scope.Declare(program.Global, game)

	nameOwn := apm.NewScope(program.Global)
	nameParam := &apm.Variable{Name_: "game", Pattern: game}
	scope.Declare(nameOwn, nameParam)

	name := &apm.StateProperty{
		Name_:  "name",
		Result: types["str"],
		Own:    nameOwn,
		Params: []*apm.Variable{nameParam},
	}
	scope.Declare(program.Global, name)

	sameOwn := apm.NewScope(program.Global)
	g1 := &apm.Variable{Name_: "g1", Pattern: game}
	g2 := &apm.Variable{Name_: "g2", Pattern: game}
	scope.Declare(sameOwn, g1)
	scope.Declare(sameOwn, g2)

	sameGame := &apm.FunctionProperty{
		Name_:  "same_game",
		Result: types["bool"],
		Own:    sameOwn,
		Params: []*apm.Variable{g1, g2},
	}
	scope.Declare(program.Global, sameGame)
}
