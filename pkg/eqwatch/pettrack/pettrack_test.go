package pettrack_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eqwatch/eqwatch-go/pkg/eqwatch/pettrack"
)

func stamp(body string) string {
	return "[Sun Sep 18 15:22:41 2022] " + body
}

type recorder struct {
	messages []string
}

func (r *recorder) Notify(msg string) { r.messages = append(r.messages, msg) }

func (r *recorder) last() string {
	if len(r.messages) == 0 {
		return ""
	}
	return r.messages[len(r.messages)-1]
}

func newTracker(t *testing.T) (*pettrack.Tracker, *recorder) {
	t.Helper()
	rec := &recorder{}
	tr := pettrack.New(rec)
	tr.SetCharacter("Azleep")
	return tr, rec
}

func TestTracker_CastThenName(t *testing.T) {
	tr, rec := newTracker(t)

	tr.ProcessLine(stamp("You begin casting Invoke Death."))
	pet := tr.Current()
	require.NotNil(t, pet)
	assert.True(t, pet.NamePending)
	assert.Equal(t, "No Pet", tr.PetName())
	assert.Contains(t, rec.last(), "Invoke Death")

	tr.ProcessLine(stamp("Boney says 'At your service Master.'"))
	pet = tr.Current()
	require.NotNil(t, pet)
	assert.False(t, pet.NamePending)
	assert.Equal(t, "Boney", tr.PetName())
	assert.Equal(t, "Pet created: Boney (Invoke Death)", rec.last())
}

func TestTracker_UnknownSpellIgnored(t *testing.T) {
	tr, _ := newTracker(t)

	tr.ProcessLine(stamp("You begin casting Gate."))
	assert.Nil(t, tr.Current())
}

func TestTracker_MeleeRankInference(t *testing.T) {
	tr, rec := newTracker(t)

	tr.ProcessLine(stamp("You begin casting Invoke Death."))
	tr.ProcessLine(stamp("Boney says 'At your service Master.'"))

	// 51 is the rank 3 max melee for Invoke Death.
	tr.ProcessLine(stamp("Boney hits a sand giant for 51 points of damage."))
	pet := tr.Current()
	require.NotNil(t, pet)
	assert.Equal(t, 3, pet.Rank)
	assert.Equal(t, 39, pet.Level)
	assert.Equal(t, 51, pet.MaxMelee)
	assert.Equal(t, "*Identified via max melee damage*", rec.last())
	assert.Contains(t, rec.messages, "Pet: Boney, Level: 39, Max Melee: 51, Rank (1-5): 3 (Invoke Death)")

	// Re-delivering the same line must not re-announce: the max is only
	// updated on a strictly greater value.
	n := len(rec.messages)
	tr.ProcessLine(stamp("Boney hits a sand giant for 51 points of damage."))
	assert.Len(t, rec.messages, n)

	// Lower damage lines never regress the max.
	tr.ProcessLine(stamp("Boney slashes a sand giant for 12 points of damage."))
	pet = tr.Current()
	assert.Equal(t, 51, pet.MaxMelee)
	assert.Equal(t, 3, pet.Rank)
}

func TestTracker_LifetapRankInference(t *testing.T) {
	tr, rec := newTracker(t)

	tr.ProcessLine(stamp("You begin casting Invoke Death."))
	tr.ProcessLine(stamp("Boney says 'At your service Master.'"))

	// The non-melee line alone resolves nothing without the smile arming it.
	tr.ProcessLine(stamp("a sand giant was hit by non-melee for 40 points of damage."))
	assert.Equal(t, 0, tr.Current().Rank)

	tr.ProcessLine(stamp("Boney beams a smile at a sand giant"))
	assert.True(t, tr.Current().LifetapPending)

	// 40 is the rank 3 lifetap for Invoke Death.
	tr.ProcessLine(stamp("a sand giant was hit by non-melee for 40 points of damage."))
	pet := tr.Current()
	assert.False(t, pet.LifetapPending)
	assert.Equal(t, 3, pet.Rank)
	assert.Equal(t, 39, pet.Level)
	assert.Equal(t, "*Identified via lifetap signature*", rec.last())
}

func TestTracker_PetLost(t *testing.T) {
	lines := []struct {
		name string
		line string
	}{
		{"disperses", "Boney disperses."},
		{"death", "Boney says, 'Sorry to have failed you, oh Great One.'"},
		{"zone", "LOADING, PLEASE WAIT..."},
		{"no pet", "You don't have a pet to command!"},
	}
	for _, tt := range lines {
		t.Run(tt.name, func(t *testing.T) {
			tr, rec := newTracker(t)
			tr.ProcessLine(stamp("You begin casting Invoke Death."))
			tr.ProcessLine(stamp("Boney says 'At your service Master.'"))

			tr.ProcessLine(stamp(tt.line))
			assert.Nil(t, tr.Current())
			assert.Equal(t, "No Pet", tr.PetName())
			assert.Contains(t, rec.messages, "Pet Boney died/lost")
		})
	}
}

func TestTracker_CharmLevelFromMelee(t *testing.T) {
	tr, _ := newTracker(t)

	// A leader declaration with no pet tracked synthesizes a charmed pet.
	tr.ProcessLine(stamp("Fippy Darkpaw says 'My leader is Azleep.'"))
	pet := tr.Current()
	require.NotNil(t, pet)
	assert.Equal(t, "Fippy Darkpaw", pet.Name)

	tr.ProcessLine(stamp("Fippy Darkpaw hits a sand giant for 50 points of damage."))
	assert.Equal(t, 25, tr.Current().Level)

	tr.ProcessLine(stamp("Fippy Darkpaw hits a sand giant for 100 points of damage."))
	assert.Equal(t, 40, tr.Current().Level)
}

func TestTracker_LeaderResetWrongCharacter(t *testing.T) {
	tr, _ := newTracker(t)

	tr.ProcessLine(stamp("Fippy Darkpaw says 'My leader is Somebodyelse.'"))
	assert.Nil(t, tr.Current())
}

func TestTracker_SelfAttackReset(t *testing.T) {
	tr, rec := newTracker(t)

	tr.ProcessLine(stamp("You begin casting Invoke Death."))
	tr.ProcessLine(stamp("Boney says 'At your service Master.'"))
	tr.ProcessLine(stamp("Boney hits a sand giant for 51 points of damage."))
	require.Equal(t, 3, tr.Current().Rank)

	// The pet reporting an attack on its own name resets the inferred
	// fields under the corrected name.
	tr.ProcessLine(stamp("Jabober tells you, 'Attacking Jabober Master.'"))
	pet := tr.Current()
	require.NotNil(t, pet)
	assert.Equal(t, "Jabober", pet.Name)
	assert.Equal(t, 0, pet.Rank)
	assert.Equal(t, 0, pet.Level)
	assert.Equal(t, 0, pet.MaxMelee)
	assert.Contains(t, rec.messages, "Pet name = Jabober")
}

func TestTracker_AttackOtherTargetNoReset(t *testing.T) {
	tr, _ := newTracker(t)

	tr.ProcessLine(stamp("You begin casting Invoke Death."))
	tr.ProcessLine(stamp("Boney says 'At your service Master.'"))

	tr.ProcessLine(stamp("Boney tells you, 'Attacking a sand giant Master.'"))
	assert.Equal(t, "Boney", tr.PetName())
}

func TestTracker_NoTimestampIgnored(t *testing.T) {
	tr, _ := newTracker(t)

	tr.ProcessLine("You begin casting Invoke Death.")
	assert.Nil(t, tr.Current())
}
