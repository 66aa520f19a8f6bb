// Package data holds static game content. The word corpus backs the
// battlefield generator: every enemy carries one word drawn from it.
package data

import "math/rand/v2"

// allWords is the shared corpus for enemy words. Short common words
// dominate so early typing stays fast; longer ones add variety.
var allWords = []string{
	"able", "acid", "aged", "also", "area", "army", "away", "baby",
	"back", "ball", "band", "bank", "base", "bath", "bear", "beat",
	"bell", "belt", "bend", "best", "bird", "blow", "blue", "boat",
	"body", "bone", "book", "born", "both", "bowl", "burn", "bush",
	"busy", "cake", "call", "calm", "came", "camp", "card", "care",
	"case", "cash", "cast", "cell", "chat", "chip", "city", "club",
	"coal", "coat", "code", "cold", "come", "cook", "cool", "cope",
	"copy", "core", "cost", "crew", "crop", "dark", "data", "date",
	"dawn", "days", "dead", "deal", "dear", "debt", "deep", "deny",
	"desk", "dial", "diet", "dish", "disk", "door", "dose", "down",
	"draw", "dream", "dress", "drink", "drive", "dust", "duty", "each",
	"earn", "ease", "east", "easy", "edge", "else", "even", "ever",
	"face", "fact", "fail", "fair", "fall", "farm", "fast", "fate",
	"fear", "feed", "feel", "file", "fill", "film", "find", "fine",
	"fire", "firm", "fish", "five", "flat", "flow", "food", "foot",
	"form", "fort", "four", "free", "from", "fuel", "full", "fund",
	"gain", "game", "gate", "gave", "gear", "gift", "girl", "give",
	"glad", "goal", "goes", "gold", "golf", "gone", "good", "gray",
	"grew", "grow", "gulf", "hair", "half", "hall", "hand", "hang",
	"hard", "harm", "hate", "have", "head", "hear", "heat", "held",
	"hell", "help", "here", "hero", "high", "hill", "hold", "hole",
	"holy", "home", "hope", "host", "hour", "huge", "hung", "hunt",
	"hurt", "idea", "inch", "into", "iron", "item", "join", "jump",
	"jury", "just", "keen", "keep", "kick", "kind", "king", "knee",
	"knew", "know", "lack", "lady", "laid", "lake", "land", "lane",
	"last", "late", "lead", "left", "less", "life", "lift", "like",
	"line", "link", "list", "live", "load", "loan", "lock", "long",
	"look", "lord", "lose", "loss", "lost", "love", "luck", "made",
	"mail", "main", "make", "many", "mark", "mask", "mass", "meal",
	"mean", "meat", "meet", "menu", "mild", "mile", "milk", "mind",
	"mine", "miss", "mode", "mood", "moon", "more", "most", "move",
	"much", "must", "name", "near", "neck", "need", "news", "next",
	"nice", "nine", "none", "nose", "note", "okay", "once", "only",
	"onto", "open", "oral", "over", "pace", "pack", "page", "paid",
	"pain", "pair", "palm", "park", "part", "pass", "past", "path",
	"peak", "pick", "pink", "plan", "play", "plot", "plus", "poll",
	"pool", "poor", "port", "post", "pull", "pure", "push", "race",
	"rain", "rank", "rare", "rate", "read", "real", "rely", "rent",
	"rest", "rice", "rich", "ride", "ring", "rise", "risk", "road",
	"rock", "role", "roll", "roof", "room", "root", "rose", "rule",
	"rush", "safe", "said", "sail", "sale", "salt", "same", "sand",
	"save", "seat", "seed", "seek", "seem", "seen", "self", "sell",
	"send", "sent", "ship", "shop", "shot", "show", "shut", "sick",
	"side", "sign", "site", "size", "skin", "slip", "slow", "snow",
	"soft", "soil", "sold", "sole", "some", "song", "soon", "sort",
	"soul", "spot", "star", "stay", "step", "stop", "such", "suit",
	"sure", "take", "tale", "talk", "tall", "tank", "tape", "task",
	"team", "tell", "tend", "term", "test", "text", "than", "that",
	"them", "then", "they", "thin", "this", "thus", "time", "tiny",
	"told", "toll", "tone", "took", "tool", "tour", "town", "tree",
	"trip", "true", "tune", "turn", "twin", "type", "unit", "upon",
	"used", "user", "vary", "vast", "very", "view", "vote", "wage",
	"wait", "wake", "walk", "wall", "want", "warm", "wash", "wave",
	"ways", "weak", "wear", "week", "well", "went", "were", "west",
	"what", "when", "wide", "wife", "wild", "will", "wind", "wine",
	"wing", "wire", "wise", "wish", "with", "wood", "word", "wore",
	"work", "yard", "yeah", "year", "your", "zero", "zone",
}

// WordCount returns the size of the corpus.
func WordCount() int {
	return len(allWords)
}

// RandomWord draws one word uniformly using the given source. Passing a
// seeded *rand.Rand makes the draw reproducible for tests.
func RandomWord(rng *rand.Rand) string {
	return allWords[rng.IntN(len(allWords))]
}
