package report

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/oxcstats/soldierstats/pkg/core"
)

// Translate maps a string key to display text. A nil Translate shows keys as is.
type Translate func(key string) string

// Get translates key, or returns it unchanged when tr is nil.
func (tr Translate) Get(key string) string {
	if tr == nil {
		return key
	}
	return tr(key)
}

// unknown translates key. An empty key yields a literal "Unknown".
func (tr Translate) unknown(key string) string {
	if key == "" {
		return "Unknown"
	}
	return tr.Get(key)
}

// unknownKey translates key, substituting "Unknown" before translation.
func (tr Translate) unknownKey(key string) string {
	if key == "" {
		key = "Unknown"
	}
	return tr.Get(key)
}

// UnslottedSlot groups items that carry no slot.
const UnslottedSlot = "Unslotted"

// FormatInventory groups a soldier's equipment by slot. Each item renders as
// "  - TYPE", followed by its ammunition and, for any item with a fuse set
// (0 included), " | Active[N]".
func FormatInventory(items []core.EquipmentItem) map[string][]string {
	out := make(map[string][]string)
	for _, item := range items {
		slot := item.Slot
		if slot == "" {
			slot = UnslottedSlot
		}

		text := "  - " + item.ItemType
		switch {
		case len(item.AmmoSlots) > 0:
			text += " (Loaded with: " + strings.Join(item.AmmoSlots, ", ") + ")"
		case item.AmmoItem != "":
			text += " (Loaded with: " + item.AmmoItem + ")"
		}
		if item.Primed() {
			text += fmt.Sprintf(" | Active[%d]", *item.FuseTimer)
		}

		out[slot] = append(out[slot], text)
	}
	return out
}

// InventorySlots returns the slot names of a formatted inventory in sorted order.
func InventorySlots(inventory map[string][]string) []string {
	return slices.Sorted(maps.Keys(inventory))
}

// ServiceRecordSummary renders the headline diary counters.
func ServiceRecordSummary(r core.ServiceRecord) string {
	return fmt.Sprintf(
		"Months of Service: %d\n"+
			"Days Wounded: %d (Wounded %d times)\n"+
			"Times Unconscious: %d\n"+
			"Shots Fired: %d | Shots Landed: %d\n"+
			"Times Shot At: %d | Times Hit: %d",
		r.MonthsService,
		r.DaysWoundedTotal, r.TimesWoundedTotal,
		r.UnconsciousTotal,
		r.ShotsFiredTotal, r.ShotsLandedTotal,
		r.ShotAtTotal, r.HitTotal,
	)
}

// DeathSummary renders a soldier's death record, or "" for the living. The
// block opens with a blank line so it can be appended to the stats text.
// Missing race, rank and weapon fall back to the translated "Unknown" key;
// missing ammo stays a literal "Unknown".
func DeathSummary(death *core.DeathInfo, tr Translate) string {
	if death == nil {
		return ""
	}
	cause := death.Cause
	if cause == nil {
		cause = &core.DeathCause{}
	}
	return fmt.Sprintf(
		"\n--- KIA ---\n"+
			"Date: %s\n"+
			"Killed by: %s (%s)\n"+
			"Weapon: %s (%s)",
		death.Time,
		tr.unknownKey(cause.Race), tr.unknownKey(cause.Rank),
		tr.unknownKey(cause.Weapon), tr.unknown(cause.WeaponAmmo),
	)
}

// MissionDeathDetail renders the short "KIA: weapon (race)" form.
func MissionDeathDetail(death *core.DeathInfo, tr Translate) string {
	if death == nil {
		return ""
	}
	var race, weapon string
	if death.Cause != nil {
		race, weapon = death.Cause.Race, death.Cause.Weapon
	}
	return fmt.Sprintf("KIA: %s (%s)", tr.unknownKey(weapon), tr.unknownKey(race))
}

// ParticipantStatus describes how a soldier came out of a mission. Death on
// the mission takes precedence over injuries.
func ParticipantStatus(m *core.Mission, s *core.Soldier) string {
	if s.Death.DiedOn(m.ID) {
		c := s.Death.Cause
		return fmt.Sprintf("KIA (%s [%s])", orUnknown(c.Weapon), orUnknown(c.Race))
	}
	if days, ok := m.InjuryDays(s.ID); ok {
		return fmt.Sprintf("Wounded (%d days)", days)
	}
	return "Survived"
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// MissionSummary renders one line per mission for soldier views.
func MissionSummary(m *core.Mission, tr Translate) string {
	return fmt.Sprintf("#%d %s %s (%s) - %s", m.ID, m.Date, tr.Get(m.Name), tr.Get(m.Region), m.Result())
}

// BaseSummary counts a base's soldiers by duty status.
type BaseSummary struct {
	Total       int
	Active      int
	Wounded     int
	Training    int
	PsiTraining int
}

// String renders the summary on one line.
func (b BaseSummary) String() string {
	return fmt.Sprintf("Soldiers: %d (%d active, %d wounded, %d training, %d psi training)",
		b.Total, b.Active, b.Wounded, b.Training, b.PsiTraining)
}

// BaseSoldierSummary counts the soldiers stationed at a base. Wounded soldiers
// are not active.
func BaseSoldierSummary(b *core.Base) BaseSummary {
	sum := BaseSummary{Total: len(b.Soldiers)}
	for i := range b.Soldiers {
		s := &b.Soldiers[i]
		if s.Wounded() {
			sum.Wounded++
		} else {
			sum.Active++
		}
		if s.Training {
			sum.Training++
		}
		if s.PsiTraining {
			sum.PsiTraining++
		}
	}
	return sum
}

// FacilityCounts counts a base's facilities by type and returns how many are
// still under construction.
func FacilityCounts(b *core.Base) (counts map[string]int, building int) {
	counts = make(map[string]int, len(b.Facilities))
	for _, f := range b.Facilities {
		counts[f.Type]++
		if !f.Complete() {
			building++
		}
	}
	return counts, building
}

// TransferLabel renders a transfer with its payload and remaining hours.
func TransferLabel(t core.Transfer, tr Translate) string {
	switch t.Kind() {
	case core.TransferSoldier:
		return fmt.Sprintf("Soldier: %s (%dh)", t.Soldier.Name, t.Hours)
	case core.TransferItem:
		return fmt.Sprintf("%s x%d (%dh)", tr.Get(t.ItemID), t.ItemQty, t.Hours)
	case core.TransferPersonnel:
		var parts []string
		if t.Scientists > 0 {
			parts = append(parts, fmt.Sprintf("%d scientists", t.Scientists))
		}
		if t.Engineers > 0 {
			parts = append(parts, fmt.Sprintf("%d engineers", t.Engineers))
		}
		return fmt.Sprintf("%s (%dh)", strings.Join(parts, ", "), t.Hours)
	default:
		return fmt.Sprintf("Unknown (%dh)", t.Hours)
	}
}
