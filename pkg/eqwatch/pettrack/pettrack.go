// Package pettrack reconstructs the identity and strength of the player's
// current pet from otherwise independent log lines.
//
// A pet's name, rank and level are never reported directly; they are
// inferred over time from the cast message, the pet's greeting, and the
// damage values it produces. The tracker is a small state machine fed one
// line at a time from the watcher's poll loop; it is not safe for
// concurrent use.
package pettrack

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/eqwatch/eqwatch-go/pkg/eqwatch/event"
)

// Notifier receives one-way, best-effort pet announcements (creation, rank
// changes, loss). Delivery success is not the tracker's concern.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(message string) { f(message) }

type discardNotifier struct{}

func (discardNotifier) Notify(string) {}

// Pet is the live state of the currently tracked pet. At most one Pet is
// current at a time; a superseded Pet is discarded, never archived.
type Pet struct {
	Spell          *Spell
	Name           string
	NamePending    bool
	LifetapPending bool
	MaxMelee       int
	Rank           int
	Level          int
}

// String renders the pet summary used in rank announcements.
func (p *Pet) String() string {
	s := fmt.Sprintf("Pet: %s, Level: %d, Max Melee: %d, Rank (1-%d): %d",
		p.Name, p.Level, p.MaxMelee, len(p.Spell.Ranks), p.Rank)
	return s + " (" + p.Spell.Name + ")"
}

func (p *Pet) createdReport() string {
	return fmt.Sprintf("Pet created: %s (%s)", p.Name, p.Spell.Name)
}

// Lines that do not depend on the pet's name.
var (
	castRe     = regexp.MustCompile("^You begin casting (?P<spell_name>[\\w` ]+)\\.")
	serviceRe  = regexp.MustCompile(`^(?P<pet_name>[\w ]+) says 'At your service Master`)
	nonMeleeRe = regexp.MustCompile("^(?P<target_name>[\\w` ]+) was hit by non-melee for (?P<damage>[\\d]+) points of damage")
	zoneRe     = regexp.MustCompile(`^LOADING, PLEASE WAIT`)
	noPetRe    = regexp.MustCompile(`^You don't have a pet to command!`)
	leaderRe   = regexp.MustCompile("^(?P<pet_name>[\\w` ]+) says 'My leader is (?P<char_name>[\\w` ]+)")
	attackRe   = regexp.MustCompile("^(?P<pet_name>[\\w` ]+) tells you, 'Attacking (?P<target_name>[\\w` ]+) Master")
)

// Tracker is the pet lifecycle state machine.
type Tracker struct {
	notify Notifier
	char   string
	pet    *Pet
	spells map[string]*Spell

	// Compiled from the current pet's name; nil while no name is known.
	disperseRe *regexp.Regexp
	deathRe    *regexp.Regexp
	smileRe    *regexp.Regexp
	meleeRe    *regexp.Regexp
}

// New creates a Tracker over the default spell reference table.
// A nil notifier discards announcements.
func New(notify Notifier) *Tracker {
	return NewWithSpells(notify, DefaultSpells())
}

// NewWithSpells creates a Tracker over a custom spell table.
func NewWithSpells(notify Notifier, spells map[string]*Spell) *Tracker {
	if notify == nil {
		notify = discardNotifier{}
	}
	return &Tracker{notify: notify, spells: spells}
}

// SetCharacter sets the name of the character whose log is being parsed.
// The leader-declaration reset only applies when the declared leader is
// this character.
func (t *Tracker) SetCharacter(name string) {
	t.char = name
}

// PetName returns the current pet's name, or "No Pet".
func (t *Tracker) PetName() string {
	if t.pet != nil && t.pet.Name != "" {
		return t.pet.Name
	}
	return "No Pet"
}

// Current returns a copy of the tracked pet state, or nil when no pet is
// tracked.
func (t *Tracker) Current() *Pet {
	if t.pet == nil {
		return nil
	}
	p := *t.pet
	return &p
}

// ProcessLine feeds one raw log line (timestamp prefix included) through
// the state machine. Lines without a valid timestamp prefix are ignored.
func (t *Tracker) ProcessLine(line string) {
	body, ok := event.StripTimestamp(line)
	if !ok {
		return
	}

	t.checkLost(body)
	t.checkCast(body)
	t.checkName(body)
	t.checkLifetapResolve(body)
	t.checkPetActivity(body)
	t.checkReset(body)
}

// checkLost handles the ways the pet can disappear: zoning, being
// reclaimed, dying, or the game declaring there is no pet.
func (t *Tracker) checkLost(body string) {
	if t.pet == nil {
		return
	}
	lost := zoneRe.MatchString(body) || noPetRe.MatchString(body)
	if !lost && t.disperseRe != nil {
		lost = t.disperseRe.MatchString(body) || t.deathRe.MatchString(body)
	}
	if lost {
		t.notify.Notify(fmt.Sprintf("Pet %s died/lost", t.pet.Name))
		t.clearPet()
	}
}

// checkCast starts tracking when a known pet spell begins casting.
func (t *Tracker) checkCast(body string) {
	m := castRe.FindStringSubmatch(body)
	if m == nil {
		return
	}
	spellName := m[1]
	spell, known := t.spells[spellName]
	if !known {
		return
	}
	t.setPet(&Pet{Spell: spell, NamePending: true})
	t.notify.Notify(fmt.Sprintf("*Pet being created from spell (%s), name TBD*", spellName))
}

// checkName resolves a pending pet name from the summoning greeting.
func (t *Tracker) checkName(body string) {
	if t.pet == nil || !t.pet.NamePending {
		return
	}
	m := serviceRe.FindStringSubmatch(body)
	if m == nil {
		return
	}
	t.setPetName(m[1])
	t.notify.Notify(t.pet.createdReport())
}

// checkLifetapResolve resolves an armed lifetap against the non-melee
// damage line that follows it. An exact lifetap value identifies the rank;
// the rank is only announced when it changes.
func (t *Tracker) checkLifetapResolve(body string) {
	if t.pet == nil || !t.pet.LifetapPending {
		return
	}
	m := nonMeleeRe.FindStringSubmatch(body)
	if m == nil {
		return
	}
	dmg, err := strconv.Atoi(m[2])
	if err != nil {
		return
	}
	t.pet.LifetapPending = false

	for _, stats := range t.pet.Spell.Ranks {
		if stats.Lifetap == dmg && t.pet.Rank != stats.Rank {
			t.pet.Rank = stats.Rank
			t.pet.Level = stats.Level
			t.notify.Notify(t.pet.String())
			t.notify.Notify("*Identified via lifetap signature*")
		}
	}
}

// checkPetActivity watches the named pet's own lines: the lifetap "beams a
// smile" tell arms the lifetap flag, and melee damage drives the max-melee
// rank inference.
func (t *Tracker) checkPetActivity(body string) {
	if t.pet == nil || t.smileRe == nil {
		return
	}

	if t.smileRe.MatchString(body) {
		t.pet.LifetapPending = true
	}

	m := t.meleeRe.FindStringSubmatch(body)
	if m == nil {
		return
	}
	dmg, err := strconv.Atoi(m[t.meleeRe.SubexpIndex("damage")])
	if err != nil {
		return
	}
	if dmg <= t.pet.MaxMelee {
		return
	}
	t.pet.MaxMelee = dmg

	for _, stats := range t.pet.Spell.Ranks {
		if stats.MaxMelee == dmg {
			t.pet.Rank = stats.Rank
			t.pet.Level = stats.Level
		}
	}

	// Charmed pets have no stats table; estimate the level from the melee
	// damage. The two-piece formula is game lore, preserved as given.
	if t.pet.Spell.Name == CharmSpellName {
		if dmg <= 60 {
			t.pet.Level = dmg / 2
		} else {
			t.pet.Level = (dmg + 60) / 4
		}
	}

	t.notify.Notify(t.pet.String())
	t.notify.Notify("*Identified via max melee damage*")
}

// checkReset handles the two in-game conventions for telling the tracker
// its pet name is wrong or missing: the pet declaring this character as
// its leader, or the pet reporting an attack on a target with its own name
// (the /pet target + /pet attack trick).
func (t *Tracker) checkReset(body string) {
	petName := ""

	if m := leaderRe.FindStringSubmatch(body); m != nil && m[2] == t.char {
		petName = m[1]
	}
	if m := attackRe.FindStringSubmatch(body); m != nil && m[1] == m[2] {
		petName = m[1]
	}
	if petName == "" {
		return
	}

	t.notify.Notify(fmt.Sprintf("Pet name = %s", petName))

	if t.pet == nil {
		// No tracked pet means this is most likely a charmed pet.
		spell, known := t.spells[CharmSpellName]
		if !known {
			return
		}
		t.setPet(&Pet{Spell: spell})
		t.setPetName(petName)
		t.notify.Notify(t.pet.createdReport())
		return
	}

	// The tracked pet's name is wrong: rename it and zero the inferred
	// fields so they get determined again.
	t.setPetName(petName)
	t.pet.Rank = 0
	t.pet.Level = 0
	t.pet.MaxMelee = 0
	t.notify.Notify(t.pet.String())
}

func (t *Tracker) setPet(p *Pet) {
	t.pet = p
	t.disperseRe = nil
	t.deathRe = nil
	t.smileRe = nil
	t.meleeRe = nil
}

func (t *Tracker) clearPet() {
	t.setPet(nil)
}

// setPetName records the pet's name and compiles the name-dependent
// patterns.
func (t *Tracker) setPetName(name string) {
	t.pet.Name = name
	t.pet.NamePending = false

	quoted := regexp.QuoteMeta(name)
	t.disperseRe = regexp.MustCompile(`(?i)^` + quoted + ` disperses`)
	t.deathRe = regexp.MustCompile(`(?i)^` + quoted + ` says, 'Sorry to have failed you, oh Great One`)
	t.smileRe = regexp.MustCompile("(?i)^" + quoted + " beams a smile at (?P<target_name>[\\w` ]+)")
	t.meleeRe = regexp.MustCompile("(?i)^" + quoted +
		" (hits|slashes|pierces|crushes|claws|bites|stings|mauls|gores|punches)" +
		" (?P<target_name>[\\w` ]+) for (?P<damage>[\\d]+) point(s)? of damage")
}
