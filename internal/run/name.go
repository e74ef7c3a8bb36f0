// SPDX-License-Identifier: MPL-2.0

package run

import (
	"math/rand/v2"

	"github.com/capsula-run/capsula/pkg/types"
)

var (
	adjectives = []string{
		"agile", "amber", "ancient", "autumn", "bold", "brave", "bright", "calm",
		"clever", "cosmic", "crimson", "curious", "dapper", "eager", "early",
		"fancy", "fierce", "gentle", "golden", "happy", "hidden", "humble",
		"jolly", "keen", "lively", "lucky", "mellow", "misty", "noble", "odd",
		"patient", "polite", "proud", "quiet", "rapid", "restless", "shiny",
		"silent", "sleepy", "snowy", "steady", "swift", "tidy", "vivid", "wild",
		"wise", "witty", "young", "zealous",
	}
	nouns = []string{
		"badger", "beacon", "bison", "breeze", "canyon", "cedar", "comet",
		"coral", "crane", "delta", "dune", "ember", "falcon", "fern", "fjord",
		"forest", "galaxy", "glacier", "harbor", "heron", "island", "lagoon",
		"lantern", "maple", "meadow", "meteor", "otter", "owl", "panda",
		"pebble", "pine", "planet", "quartz", "raven", "reef", "river", "sparrow",
		"summit", "thunder", "tiger", "tundra", "valley", "walrus", "willow",
		"wolf", "zephyr",
	}
)

// GenerateName returns a random "adjective_noun" run name.
func GenerateName() types.RunName {
	return types.RunName(adjectives[rand.IntN(len(adjectives))] + "_" + nouns[rand.IntN(len(nouns))])
}
