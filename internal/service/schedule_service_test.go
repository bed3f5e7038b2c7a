package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/ecole-admin-api/internal/models"
)

type fakeScheduleRepo struct {
	entries []models.ScheduleEntry
	nextID  int
}

func (f *fakeScheduleRepo) List(ctx context.Context, class string) ([]models.ScheduleEntry, error) {
	if class == "" {
		return f.entries, nil
	}
	out := make([]models.ScheduleEntry, 0)
	for _, e := range f.entries {
		if e.Class == class {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	for i := range f.entries {
		if f.entries[i].ID == id {
			e := f.entries[i]
			return &e, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeScheduleRepo) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	f.nextID++
	entry.ID = string(rune('a' + f.nextID))
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeScheduleRepo) Update(ctx context.Context, entry *models.ScheduleEntry) error {
	for i := range f.entries {
		if f.entries[i].ID == entry.ID {
			f.entries[i] = *entry
			return nil
		}
	}
	return nil
}

func (f *fakeScheduleRepo) Delete(ctx context.Context, id string) error {
	for i := range f.entries {
		if f.entries[i].ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func TestMergeSlotsDefaultsOnly(t *testing.T) {
	slots := mergeSlots(nil)
	assert.Equal(t, models.DefaultSlots(), slots)
}

func TestMergeSlotsAddsObservedAndSorts(t *testing.T) {
	entries := []models.ScheduleEntry{
		{StartTime: "16:00", EndTime: "17:00"},
		{StartTime: "07:00", EndTime: "08:00"},
		{StartTime: "08:00", EndTime: "09:00"}, // duplicate of a default slot
	}
	slots := mergeSlots(entries)

	require.Len(t, slots, 8)
	assert.Equal(t, models.TimeSlot{Start: "07:00", End: "08:00"}, slots[0])
	assert.Equal(t, models.TimeSlot{Start: "16:00", End: "17:00"}, slots[7])
	for i := 1; i < len(slots); i++ {
		assert.LessOrEqual(t, slots[i-1].Start, slots[i].Start)
	}
}

func TestScheduleSlotsEmptyClassReturnsDefaults(t *testing.T) {
	svc := NewScheduleService(&fakeScheduleRepo{}, nil, zap.NewNop())

	slots, err := svc.Slots(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSlots(), slots)
}

func TestScheduleGridPlacesEntries(t *testing.T) {
	repo := &fakeScheduleRepo{entries: []models.ScheduleEntry{
		{ID: "e1", Class: "3A", Day: "Lundi", StartTime: "08:00", EndTime: "09:00", Subject: "Mathématiques", Teacher: "M. Sarr"},
		{ID: "e2", Class: "3A", Day: "Jeudi", StartTime: "14:00", EndTime: "15:00", Subject: "SVT", Teacher: "Mme Thiam"},
	}}
	svc := NewScheduleService(repo, nil, zap.NewNop())

	grid, err := svc.Grid(context.Background(), "3A")
	require.NoError(t, err)
	assert.Equal(t, "3A", grid.Class)
	assert.Equal(t, models.Weekdays, grid.Days)
	require.Len(t, grid.Rows, 6)

	monday := grid.Rows[0].Cells[0]
	require.NotNil(t, monday.Entry)
	assert.Equal(t, "e1", monday.Entry.ID)

	// Jeudi 14:00 is row index 4 (slots are sorted by start), cell index 3.
	thursday := grid.Rows[4].Cells[3]
	require.NotNil(t, thursday.Entry)
	assert.Equal(t, "e2", thursday.Entry.ID)

	assert.Nil(t, grid.Rows[0].Cells[1].Entry)
}

func TestScheduleGridRequiresClass(t *testing.T) {
	svc := NewScheduleService(&fakeScheduleRepo{}, nil, zap.NewNop())
	_, err := svc.Grid(context.Background(), "")
	require.Error(t, err)
}

func TestScheduleClassesFirstSeenOrder(t *testing.T) {
	repo := &fakeScheduleRepo{entries: []models.ScheduleEntry{
		{ID: "1", Class: "4B"},
		{ID: "2", Class: "3A"},
		{ID: "3", Class: "4B"},
	}}
	svc := NewScheduleService(repo, nil, zap.NewNop())

	classes, err := svc.Classes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"4B", "3A"}, classes)
}

func TestScheduleCreateValidation(t *testing.T) {
	svc := NewScheduleService(&fakeScheduleRepo{}, nil, zap.NewNop())

	base := ScheduleEntryRequest{
		Class: "3A", Day: "Lundi", StartTime: "08:00", EndTime: "09:00",
		Subject: "Mathématiques", Teacher: "M. Sarr", Room: "B12",
	}

	entry, err := svc.Create(context.Background(), base)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)

	bad := base
	bad.Day = "Dimanche"
	_, err = svc.Create(context.Background(), bad)
	require.Error(t, err)

	bad = base
	bad.StartTime = "8h00"
	_, err = svc.Create(context.Background(), bad)
	require.Error(t, err)

	bad = base
	bad.EndTime = "08:00"
	_, err = svc.Create(context.Background(), bad)
	require.Error(t, err)
}

func TestScheduleUpdateMissingEntry(t *testing.T) {
	svc := NewScheduleService(&fakeScheduleRepo{}, nil, zap.NewNop())

	_, err := svc.Update(context.Background(), "missing", ScheduleEntryRequest{
		Class: "3A", Day: "Lundi", StartTime: "08:00", EndTime: "09:00",
		Subject: "Mathématiques", Teacher: "M. Sarr", Room: "B12",
	})
	require.Error(t, err)
}
