package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"smartlib/internal/modules/library/domain"
	"smartlib/internal/modules/library/dto"
	libraryin "smartlib/internal/modules/library/port/in"
	"smartlib/internal/modules/library/service"
	"smartlib/internal/modules/library/usecase"
	apperrors "smartlib/internal/platform/errors"
	"smartlib/internal/platform/logger"
	"smartlib/internal/platform/validation"
)

type fakeAPI struct {
	entries  []domain.Entry
	calls    []string
	patches  []domain.Patch
	failList error
}

func (f *fakeAPI) List(_ context.Context, status domain.Status) ([]domain.Entry, error) {
	f.calls = append(f.calls, "list:"+string(status))
	if f.failList != nil {
		return nil, f.failList
	}
	if status == "" {
		return append([]domain.Entry(nil), f.entries...), nil
	}
	var out []domain.Entry
	for _, e := range f.entries {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAPI) Add(_ context.Context, bookID int64, status domain.Status) error {
	f.calls = append(f.calls, "add")
	f.entries = append(f.entries, domain.Entry{ID: int64(len(f.entries) + 1), BookID: bookID, Status: status, Title: "Added"})
	return nil
}

func (f *fakeAPI) Update(_ context.Context, entryID int64, patch domain.Patch) error {
	f.calls = append(f.calls, "update")
	f.patches = append(f.patches, patch)
	for i := range f.entries {
		if f.entries[i].ID == entryID && patch.Status != nil {
			f.entries[i].Status = *patch.Status
		}
	}
	return nil
}

func (f *fakeAPI) Remove(_ context.Context, entryID int64) error {
	f.calls = append(f.calls, "remove")
	kept := f.entries[:0]
	for _, e := range f.entries {
		if e.ID != entryID {
			kept = append(kept, e)
		}
	}
	f.entries = kept
	return nil
}

type fakeIndex struct {
	replaced [][]domain.Entry
	upserted [][]domain.Entry
}

func (f *fakeIndex) Replace(_ context.Context, entries []domain.Entry) error {
	f.replaced = append(f.replaced, entries)
	return nil
}

func (f *fakeIndex) Upsert(_ context.Context, entries []domain.Entry) error {
	f.upserted = append(f.upserted, entries)
	return nil
}

func (f *fakeIndex) Find(_ context.Context, text string) ([]domain.Entry, error) {
	if len(f.replaced) == 0 {
		return nil, nil
	}
	var out []domain.Entry
	for _, e := range f.replaced[len(f.replaced)-1] {
		if strings.Contains(strings.ToLower(e.Title), strings.ToLower(text)) {
			out = append(out, e)
		}
	}
	return out, nil
}

func newInteractor(api *fakeAPI, idx *fakeIndex) *usecaseHarness {
	return &usecaseHarness{
		uc:  usecase.NewInteractor(service.NewEntryService(api, idx, logger.Discard()), validation.New()),
		api: api,
		idx: idx,
	}
}

type usecaseHarness struct {
	uc  libraryin.Usecase
	api *fakeAPI
	idx *fakeIndex
}

func TestWritesAreFollowedByRefetch(t *testing.T) {
	t.Parallel()
	h := newInteractor(&fakeAPI{entries: []domain.Entry{{ID: 1, BookID: 10, Title: "Dune", Status: domain.StatusReading}}}, &fakeIndex{})

	added, err := h.uc.Add(context.Background(), dto.AddInput{BookID: 11})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(added) != 2 || added[1].Status != "TO_READ" {
		t.Fatalf("expected refreshed list with TO_READ default, got %+v", added)
	}

	status := "finished"
	updated, err := h.uc.Update(context.Background(), dto.UpdateInput{EntryID: 1, Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated[0].Status != "FINISHED" {
		t.Fatalf("expected FINISHED after refetch, got %s", updated[0].Status)
	}

	remaining, err := h.uc.Remove(context.Background(), 1)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("expected one entry left, got %d", len(remaining))
	}

	want := []string{"add", "list:", "update", "list:", "remove", "list:"}
	if strings.Join(h.api.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("expected calls %v, got %v", want, h.api.calls)
	}
}

func TestUpdateRejectsOutOfRangeBeforeNetwork(t *testing.T) {
	t.Parallel()
	h := newInteractor(&fakeAPI{}, &fakeIndex{})
	rating := 6
	progress := 101
	cases := []dto.UpdateInput{
		{EntryID: 1, Rating: &rating},
		{EntryID: 1, ProgressPercent: &progress},
		{EntryID: 1},
		{EntryID: 0, Rating: &rating},
	}
	for _, input := range cases {
		if _, err := h.uc.Update(context.Background(), input); !errors.Is(err, apperrors.ErrValidation) {
			t.Fatalf("expected validation failure for %+v, got %v", input, err)
		}
	}
	if len(h.api.calls) != 0 {
		t.Fatalf("expected no network calls, got %v", h.api.calls)
	}
}

func TestFilteredListUpsertsAndFullListReplacesIndex(t *testing.T) {
	t.Parallel()
	h := newInteractor(&fakeAPI{entries: []domain.Entry{
		{ID: 1, Title: "Dune", Status: domain.StatusReading},
		{ID: 2, Title: "Emma", Status: domain.StatusToRead},
	}}, &fakeIndex{})

	reading, err := h.uc.List(context.Background(), "reading")
	if err != nil {
		t.Fatalf("list reading: %v", err)
	}
	if len(reading) != 1 || len(h.idx.upserted) != 1 || len(h.idx.replaced) != 0 {
		t.Fatalf("expected filtered list to upsert, got list=%d upserts=%d replaces=%d", len(reading), len(h.idx.upserted), len(h.idx.replaced))
	}
	if _, err := h.uc.List(context.Background(), ""); err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(h.idx.replaced) != 1 {
		t.Fatalf("expected full list to replace index")
	}

	found, err := h.uc.Find(context.Background(), "emm")
	if err != nil || len(found) != 1 || found[0].ID != 2 {
		t.Fatalf("expected Emma from index, got %+v err=%v", found, err)
	}

	if _, err := h.uc.List(context.Background(), "paused"); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected unknown status to be rejected, got %v", err)
	}
}

func TestGetReportsMissingEntry(t *testing.T) {
	t.Parallel()
	h := newInteractor(&fakeAPI{entries: []domain.Entry{{ID: 1, Title: "Dune", Status: domain.StatusReading}}}, &fakeIndex{})
	entry, err := h.uc.Get(context.Background(), 1)
	if err != nil || entry.Title != "Dune" {
		t.Fatalf("expected Dune, got %+v err=%v", entry, err)
	}
	if _, err := h.uc.Get(context.Background(), 42); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListFailurePropagates(t *testing.T) {
	t.Parallel()
	boom := apperrors.Request(500, "boom")
	h := newInteractor(&fakeAPI{failList: boom}, &fakeIndex{})
	if _, err := h.uc.List(context.Background(), ""); !errors.Is(err, apperrors.ErrRequestFailure) {
		t.Fatalf("expected request failure, got %v", err)
	}
	if len(h.idx.replaced) != 0 {
		t.Fatalf("index must not be touched on failure")
	}
}
