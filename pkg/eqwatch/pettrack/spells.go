package pettrack

// Stats is one rank of a summoned pet: the level and damage signature that
// identify it.
type Stats struct {
	Rank        int
	Level       int
	MaxMelee    int
	MaxBashKick int
	MaxBackstab int
	Lifetap     int
}

// Spell describes a pet-summoning spell and the ordered set of ranks its
// pet can come out at. Reference data, immutable after load.
type Spell struct {
	Name        string
	Class       string
	CasterLevel int
	Ranks       []Stats
}

// CharmSpellName is the placeholder spell used for charmed pets, which have
// no stats table. Their level is estimated from observed melee damage.
const CharmSpellName = "CharmPet"

// DefaultSpells returns the reference table of known pet spells, keyed by
// spell name.
func DefaultSpells() map[string]*Spell {
	spells := []*Spell{
		{
			Name: "Bone Walk", Class: "Necro", CasterLevel: 8,
			Ranks: []Stats{
				{Rank: 1, Level: 6, MaxMelee: 8, MaxBashKick: 8},
				{Rank: 2, Level: 7, MaxMelee: 10, MaxBashKick: 10},
				{Rank: 3, Level: 8, MaxMelee: 12, MaxBashKick: 12},
				{Rank: 4, Level: 9, MaxMelee: 14, MaxBashKick: 13},
			},
		},
		{
			Name: "Convoke Shadow", Class: "Necro", CasterLevel: 12,
			Ranks: []Stats{
				{Rank: 1, Level: 8, MaxMelee: 10, MaxBashKick: 10},
				{Rank: 2, Level: 9, MaxMelee: 12, MaxBashKick: 12},
				{Rank: 3, Level: 10, MaxMelee: 14, MaxBashKick: 14},
				{Rank: 4, Level: 11, MaxMelee: 16, MaxBashKick: 16},
			},
		},
		{
			Name: "Restless Bones", Class: "Necro", CasterLevel: 16,
			Ranks: []Stats{
				{Rank: 1, Level: 12, MaxMelee: 12, MaxBashKick: 12},
				{Rank: 2, Level: 13, MaxMelee: 14, MaxBashKick: 14},
				{Rank: 3, Level: 14, MaxMelee: 16, MaxBashKick: 15},
				{Rank: 4, Level: 15, MaxMelee: 18, MaxBashKick: 15},
				{Rank: 5, Level: 16, MaxMelee: 20, MaxBashKick: 16},
			},
		},
		{
			Name: "Animate Dead", Class: "Necro", CasterLevel: 20,
			Ranks: []Stats{
				{Rank: 1, Level: 15, MaxMelee: 14, MaxBashKick: 14},
				{Rank: 2, Level: 16, MaxMelee: 16, MaxBashKick: 15},
				{Rank: 3, Level: 17, MaxMelee: 18, MaxBashKick: 15},
				{Rank: 4, Level: 18, MaxMelee: 20, MaxBashKick: 16},
				{Rank: 5, Level: 19, MaxMelee: 22, MaxBashKick: 16},
			},
		},
		{
			Name: "Haunting Corpse", Class: "Necro", CasterLevel: 24,
			Ranks: []Stats{
				{Rank: 1, Level: 18, MaxMelee: 18, MaxBashKick: 15},
				{Rank: 2, Level: 19, MaxMelee: 20, MaxBashKick: 16},
				{Rank: 3, Level: 20, MaxMelee: 22, MaxBashKick: 16},
				{Rank: 4, Level: 21, MaxMelee: 23, MaxBashKick: 17},
				{Rank: 5, Level: 22, MaxMelee: 26, MaxBashKick: 17},
			},
		},
		// TODO: caster level 29-44 necro pets are missing from the table.
		{
			Name: "Invoke Death", Class: "Necro", CasterLevel: 49,
			Ranks: []Stats{
				{Rank: 1, Level: 37, MaxMelee: 47, MaxBashKick: 22, Lifetap: 38},
				{Rank: 2, Level: 38, MaxMelee: 49, MaxBashKick: 23, Lifetap: 39},
				{Rank: 3, Level: 39, MaxMelee: 51, MaxBashKick: 23, Lifetap: 40},
				{Rank: 4, Level: 40, MaxMelee: 52, MaxBashKick: 24, Lifetap: 41},
				{Rank: 5, Level: 41, MaxMelee: 55, MaxBashKick: 24, Lifetap: 42},
			},
		},
		{
			Name: "Minion of Shadows", Class: "Necro", CasterLevel: 53,
			Ranks: []Stats{
				{Rank: 1, Level: 40, MaxMelee: 49, MaxBackstab: 147, Lifetap: 40},
				{Rank: 2, Level: 41, MaxMelee: 51, MaxBackstab: 153, Lifetap: 41},
				{Rank: 3, Level: 42, MaxMelee: 52, MaxBackstab: 159, Lifetap: 42},
				{Rank: 4, Level: 43, MaxMelee: 55, MaxBackstab: 165, Lifetap: 43},
				{Rank: 5, Level: 44, MaxMelee: 56, MaxBackstab: 171, Lifetap: 44},
			},
		},
		{
			Name: "Servant of Bones", Class: "Necro", CasterLevel: 56,
			Ranks: []Stats{
				{Rank: 1, Level: 40, MaxMelee: 51, MaxBashKick: 63, Lifetap: 41},
				{Rank: 2, Level: 41, MaxMelee: 52, MaxBashKick: 65, Lifetap: 42},
				{Rank: 3, Level: 42, MaxMelee: 55, MaxBashKick: 66, Lifetap: 43},
				{Rank: 4, Level: 43, MaxMelee: 56, MaxBashKick: 68, Lifetap: 44},
				{Rank: 5, Level: 44, MaxMelee: 59, MaxBashKick: 69, Lifetap: 45},
			},
		},
		{
			Name: "Zumaik`s Animation", Class: "Enchanter", CasterLevel: 55,
			Ranks: []Stats{
				{Rank: 1, Level: 44, MaxMelee: 49, MaxBashKick: 23},
				{Rank: 2, Level: 45, MaxMelee: 51, MaxBashKick: 23},
				{Rank: 3, Level: 46, MaxMelee: 52, MaxBashKick: 24},
				{Rank: 4, Level: 47, MaxMelee: 55, MaxBashKick: 24},
				{Rank: 5, Level: 48, MaxMelee: 56, MaxBashKick: 25},
			},
		},
		{
			// Charmed pets have no usable stats table; level is estimated
			// from melee damage instead.
			Name: CharmSpellName, Class: "UnknownClass", CasterLevel: 0,
			Ranks: []Stats{{}},
		},
	}

	byName := make(map[string]*Spell, len(spells))
	for _, s := range spells {
		byName[s.Name] = s
	}
	return byName
}
