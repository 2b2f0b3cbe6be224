package generator

// rareNamePrefixes and rareNameSuffixes back make_rare's name roll,
// recovered verbatim (same order, same 20+20 entries) from the reference
// implementation's generate_rare_name; index stability matters here since
// the index drawn from the RNG must land on the same word across
// implementations.
var rareNamePrefixes = []string{
	"Doom", "Wrath", "Storm", "Dread", "Soul", "Death", "Blood", "Shadow", "Grim", "Hate",
	"Plague", "Blight", "Rune", "Spirit", "Mind", "Skull", "Bone", "Venom", "Foe", "Pain",
}

var rareNameSuffixes = []string{
	"Bane", "Edge", "Fang", "Bite", "Roar", "Song", "Call", "Cry", "Grasp", "Touch",
	"Strike", "Blow", "Mark", "Brand", "Scar", "Ward", "Guard", "Veil", "Shroud", "Mantle",
}
