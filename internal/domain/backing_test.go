package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LodgingService/pkg/ptr"
)

func TestComesAfterOthers(t *testing.T) {
	closed := Backing{ID: 1, Start: jan(1), End: ptr.Ptr(jan(10))}
	open := Backing{ID: 2, Start: jan(10)}

	tests := []struct {
		name      string
		candidate Backing
		others    []Backing
		want      bool
	}{
		{name: "нет других", candidate: Backing{Start: jan(5)}, want: true},
		{name: "после закрытой", candidate: Backing{Start: jan(10)}, others: []Backing{closed}, want: true},
		{name: "вторая бессрочная", candidate: Backing{Start: jan(20)}, others: []Backing{closed, open}, want: false},
		{name: "начало внутри другой", candidate: Backing{Start: jan(9)}, others: []Backing{closed}, want: false},
		{name: "другая начинается позже", candidate: Backing{Start: jan(1).AddDate(0, 0, -5)}, others: []Backing{closed}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComesAfterOthers(tt.candidate, tt.others))
		})
	}
}

func TestCurrentAndFutureBackings(t *testing.T) {
	past := Backing{ID: 1, Start: jan(1), End: ptr.Ptr(jan(5))}
	current := Backing{ID: 2, Start: jan(5), End: ptr.Ptr(jan(20))}
	future := Backing{ID: 3, Start: jan(20)}
	all := []Backing{future, past, current}

	got := CurrentAndFutureBackings(all, jan(10))
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)

	// поддержка, закончившаяся в день date, уже не текущая
	got = CurrentAndFutureBackings([]Backing{past, future}, jan(5))
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)

	b, ok := CurrentBacking(all, jan(10))
	require.True(t, ok)
	assert.Equal(t, int64(2), b.ID)

	_, ok = CurrentBacking([]Backing{future}, jan(10))
	assert.False(t, ok)

	assert.Len(t, ScheduledFutureBackings(all, jan(10)), 1)

	latest, ok := LatestBacking(all)
	require.True(t, ok)
	assert.Equal(t, int64(3), latest.ID)
}

func TestPlanNextBacking(t *testing.T) {
	today := jan(15)
	current := Backing{ID: 1, ResourceID: 7, Start: jan(1)}
	future := Backing{ID: 2, ResourceID: 7, Start: jan(25), End: ptr.Ptr(jan(30))}

	plan, err := PlanNextBacking(7, []Backing{current, future}, []int64{10, 11}, jan(20), today)
	require.NoError(t, err)

	require.Len(t, plan.End, 1)
	assert.Equal(t, int64(1), plan.End[0].ID)
	assert.Equal(t, jan(20), *plan.End[0].End)

	require.Len(t, plan.Delete, 1)
	assert.Equal(t, int64(2), plan.Delete[0].ID)

	assert.Equal(t, jan(20), plan.Next.Start)
	assert.Nil(t, plan.Next.End)
	assert.Equal(t, []int64{10, 11}, plan.Next.UserIDs)
}

func TestPlanNextBacking_SameStartIsDeleted(t *testing.T) {
	existing := Backing{ID: 1, Start: jan(10)}

	plan, err := PlanNextBacking(7, []Backing{existing}, []int64{1}, jan(10), jan(15))
	require.NoError(t, err)
	assert.Len(t, plan.Delete, 1)
	assert.Empty(t, plan.End)
}

func TestPlanNextBacking_Overlap(t *testing.T) {
	// начавшаяся поддержка не может быть закрыта датой раньше своего начала
	existing := Backing{ID: 1, Start: jan(10)}

	_, err := PlanNextBacking(7, []Backing{existing}, []int64{1}, jan(5), jan(15))
	assert.ErrorIs(t, err, ErrBackingOverlap)

	_, err = PlanNextBacking(7, nil, nil, jan(5), jan(15))
	assert.ErrorIs(t, err, ErrNoBackers)
}
