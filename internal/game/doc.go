// Package game implements the rules of Egyptian Ratscrew.
//
// The main type is Engine, which runs a single round: players take turns
// moving the front card of their hand onto a shared pile, anyone may slap a
// pile whose top cards form a double or a sandwich, and face cards force the
// next seat to pay a penalty of cards.
//
// # Basic Usage
//
//	rules := game.DefaultRules()
//	players := []*game.Player{
//	    game.NewPlayer("Alice", game.NewHumanAgent(prompter, logger)),
//	    game.NewPlayer("Computer", game.NewComputerAgent(randutil.NewSource(42))),
//	}
//	engine, err := game.NewEngine(rules, players, game.WithEventBus(bus))
//	if err != nil {
//	    return err
//	}
//	d := rules.NewDeck()
//	d.Shuffle(randutil.NewSource(42))
//	engine.Deal(d)
//	result, err := engine.PlayRound(ctx)
//
// # Deterministic Testing
//
// SetHands replaces the deal with exact hands, and ComputerAgent accepts any
// BoolSource, so DecisionFunc can script every slap decision:
//
//	engine.SetHands(deck.MustParseCards("Kh 2c 3d"), deck.MustParseCards("2s 3h Qc"))
//	done, err := engine.Step(ctx)
//
// # Architecture
//
// The engine delegates to small components:
//   - Rules: deck composition, penalty table and seat limits
//   - Hand and Pile: ordered card stacks with no rule knowledge
//   - challenge: the penalty sequence started by a face card
//   - Agent: human or computer decisions, polled humans first
//   - EventBus: synchronous notifications for front ends
//
// Every card is always in exactly one hand or in the pile; WithInvariantChecks
// asserts this after every step.
package game
