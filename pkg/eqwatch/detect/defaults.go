package detect

import "fmt"

// Detector IDs for the stock set. The IDs are part of the wire contract
// with the remote collectors and must stay stable.
const (
	IDVesselDrozlin   = 1
	IDVerinaTomb      = 2
	IDMasterYael      = 3
	IDDainFrostreaver = 4
	IDSeverilous      = 5
	IDCazicThule      = 6
	IDFTE             = 7
	IDPlayerSlain     = 8
	IDEarthquake      = 9
	IDRandom          = 10
	IDGratss          = 12
	IDTOD             = 13
	IDGMOTD           = 14
)

// Default returns the stock detector set in evaluation order.
func Default() []*Detector {
	return []*Detector{
		NewVesselDrozlin(),
		NewVerinaTomb(),
		NewDainFrostreaver(),
		NewSeverilous(),
		NewCazicThule(),
		NewMasterYael(),
		NewFTE(),
		NewPlayerSlain(),
		NewEarthquake(),
		NewRandom(),
		NewGratss(),
		NewTOD(),
		NewGMOTD(),
	}
}

// spawnTriggers is the standard trigger list for a named raid target spawn.
func spawnTriggers(name string) []string {
	return []string{
		"^" + name + " begins to cast a spell",
		"^" + name + ` engages (?P<playername>[\w ]+)!`,
		"^" + name + " has been slain",
		"^" + name + " says",
		"^You have been slain by " + name,
	}
}

// NewVesselDrozlin detects Vessel Drozlin spawn activity.
func NewVesselDrozlin() *Detector {
	return MustNew(IDVesselDrozlin, "Vessel Drozlin spawn!", spawnTriggers("Vessel Drozlin"))
}

// NewVerinaTomb detects Verina Tomb spawn activity.
func NewVerinaTomb() *Detector {
	return MustNew(IDVerinaTomb, "Verina Tomb spawn!", spawnTriggers("Verina Tomb"))
}

// NewMasterYael detects Master Yael spawn activity.
func NewMasterYael() *Detector {
	return MustNew(IDMasterYael, "Master Yael spawn!", spawnTriggers("Master Yael"))
}

// NewDainFrostreaver detects Dain Frostreaver IV spawn activity.
// Dain does not cast, so there is no "begins to cast" trigger.
func NewDainFrostreaver() *Detector {
	return MustNew(IDDainFrostreaver, "Dain Frostreaver IV spawn!", []string{
		`^Dain Frostreaver IV engages (?P<playername>[\w ]+)!`,
		"^Dain Frostreaver IV says",
		"^Dain Frostreaver IV has been slain",
		"^You have been slain by Dain Frostreaver IV",
	})
}

// NewSeverilous detects Severilous spawn activity.
func NewSeverilous() *Detector {
	return MustNew(IDSeverilous, "Severilous spawn!", spawnTriggers("Severilous"))
}

// NewCazicThule detects Cazic Thule spawn activity, including the zone-wide
// shout he makes when engaged.
func NewCazicThule() *Detector {
	return MustNew(IDCazicThule, "Cazic Thule spawn!", []string{
		`^Cazic Thule engages (?P<playername>[\w ]+)!`,
		"^Cazic Thule has been slain",
		"^Cazic Thule says",
		"^You have been slain by Cazic Thule",
		"Cazic Thule  shouts 'Denizens of Fear, your master commands you to come forth to his aid!!",
	})
}

// NewFTE detects any "first to engage" message. The gate rewrites the
// description to embed the target and the engaging player.
func NewFTE() *Detector {
	return MustNewWithGate(IDFTE, "FTE!",
		[]string{`^(?P<target_name>[\w ]+) engages (?P<playername>[\w ]+)!`},
		func(d *Detector, m Match) bool {
			target, _ := m.Group("target_name")
			player, _ := m.Group("playername")
			d.Description = fmt.Sprintf("FTE: %s engages %s", target, player)
			return true
		})
}

// NewPlayerSlain detects the watched player's death.
func NewPlayerSlain() *Detector {
	return MustNew(IDPlayerSlain, "Player Slain!", []string{
		`^You have been slain by (?P<target_name>[\w ]+)`,
	})
}

// NewEarthquake detects the server-wide earthquake message.
func NewEarthquake() *Detector {
	return MustNew(IDEarthquake, "Earthquake!", []string{
		"^The Gods of Norrath emit a sinister laugh as they toy with their creations",
	})
}

// NewRandom detects /random rolls. The game reports one roll as two
// consecutive lines: the announcer line, then the result line. The gate
// caches the announcer from the first line and only accepts on the second,
// so the two physical lines become one event.
func NewRandom() *Detector {
	var announcer string
	return MustNewWithGate(IDRandom, "Random!",
		[]string{
			`^\*\*A Magic Die is rolled by (?P<playername>[\w ]+)\.`,
			`^\*\*It could have been any number from (?P<low>[0-9]+) to (?P<high>[0-9]+), but this time it turned up a (?P<value>[0-9]+)\.`,
		},
		func(d *Detector, m Match) bool {
			if name, ok := m.Group("playername"); ok {
				// First line of the pair: remember who rolled.
				announcer = name
				return false
			}
			low, _ := m.Group("low")
			high, _ := m.Group("high")
			value, _ := m.Group("value")
			d.Description = fmt.Sprintf("Random roll: %s, %s-%s, Value=%s", announcer, low, high, value)
			announcer = ""
			return true
		})
}

// NewGratss detects congratulation messages in any channel.
func NewGratss() *Detector {
	return MustNew(IDGratss, "Gratss", []string{
		"(?i).*gratss",
	})
}

// NewTOD detects time-of-death reports: either "tod" mentioned in a comms
// channel, or an explicit slain message. The gate varies the description
// depending on whether the slain target is a known raid target.
func NewTOD() *Detector {
	return MustNewWithGate(IDTOD, "TOD",
		[]string{
			"(?i).*tod",
			`^(?P<target_name>[\w ]+) has been slain`,
		},
		func(d *Detector, m Match) bool {
			// Reset in case a previous match rewrote it.
			d.Description = "TOD"
			if target, ok := m.Group("target_name"); ok && knownTargets[target] {
				d.Description = "TOD (Slain Message): " + target
			}
			return true
		})
}

// NewGMOTD detects the guild message of the day.
func NewGMOTD() *Detector {
	return MustNew(IDGMOTD, "GMOTD", []string{
		"^GUILD MOTD:",
	})
}

// knownTargets is the reference set of raid targets whose slain messages
// are worth a time-of-death report.
var knownTargets = toSet([]string{
	"Kelorek`Dar",
	"Vaniki",
	"Vilefang",
	"Zlandicar",
	"Narandi the Wretched",
	"Lodizal",
	"Stormfeather",
	"Dain Frostreaver IV",
	"Derakor the Vindicator",
	"Keldor Dek`Torek",
	"King Tormax",
	"The Statue of Rallos Zek",
	"The Avatar of War",
	"Tunare",
	"Lord Yelinak",
	"Master of the Guard",
	"The Final Arbiter",
	"The Progenitor",
	"An angry goblin",
	"Casalen",
	"Dozekar the Cursed",
	"Essedera",
	"Grozzmel",
	"Krigara",
	"Lepethida",
	"Midayor",
	"Tavekalem",
	"Ymmeln",
	"Aaryonar",
	"Cekenar",
	"Dagarn the Destroyer",
	"Eashen of the Sky",
	"Ikatiar the Venom",
	"Jorlleag",
	"Lady Mirenilla",
	"Lady Nevederia",
	"Lord Feshlak",
	"Lord Koi`Doken",
	"Lord Kreizenn",
	"Lord Vyemm",
	"Sevalak",
	"Vulak`Aerr",
	"Zlexak",
	"Gozzrem",
	"Lendiniara the Keeper",
	"Telkorenar",
	"Wuoshi",
	"Druushk",
	"Hoshkar",
	"Nexona",
	"Phara Dar",
	"Silverwing",
	"Xygoz",
	"Lord Doljonijiarnimorinar",
	"Velketor the Sorcerer",
	"Guardian Kozzalym",
	"Klandicar",
	"Myga NE PH",
	"Myga ToV PH",
	"Scout Charisa",
	"Sontalak",
	"Gorenaire",
	"Vessel Drozlin",
	"Severilous",
	"Venril Sathir",
	"Trakanon",
	"Talendor",
	"Faydedar",
	"a shady goblin",
	"Phinigel Autropos",
	"Lord Nagafen",
	"Zordak Ragefire",
	"Verina Tomb",
	"Lady Vox",
	"A dracoliche",
	"Cazic Thule",
	"Dread",
	"Fright",
	"Terror",
	"Wraith of a Shissir",
	"Innoruuk",
	"Noble Dojorn",
	"Nillipuss",
	"Master Yael",
	"Sir Lucan D`Lere",
})

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
