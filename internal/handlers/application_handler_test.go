package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hireflow/internal/models"
)

type shortlistCall struct {
	id          uuid.UUID
	shortlisted bool
}

type stubApplicationRepo struct {
	app   *models.Application
	calls []shortlistCall
}

func (r *stubApplicationRepo) Create(app *models.Application) error { return nil }

func (r *stubApplicationRepo) FindByID(id uuid.UUID) (*models.Application, error) {
	return r.app, nil
}

func (r *stubApplicationRepo) FindAll(jobID *uuid.UUID) ([]models.Application, error) {
	return nil, nil
}

func (r *stubApplicationRepo) UpdateShortlist(id uuid.UUID, shortlisted bool) (*models.Application, error) {
	r.calls = append(r.calls, shortlistCall{id: id, shortlisted: shortlisted})
	r.app.Shortlisted = shortlisted
	return r.app, nil
}

func (r *stubApplicationRepo) UpdateAnalysis(id uuid.UUID, resumeText string, matchScore float64, status models.InterviewStatus) error {
	return nil
}

func (r *stubApplicationRepo) UpdateAnalysisError(id uuid.UUID, errorMsg string) error { return nil }

func (r *stubApplicationRepo) UpdateInterviewResult(id uuid.UUID, resultJSON string, shortlisted bool) error {
	return nil
}

func (r *stubApplicationRepo) FindUnanalyzed(limit int) ([]models.Application, error) {
	return nil, nil
}

func newShortlistApp(t *testing.T, repo *stubApplicationRepo) *fiber.App {
	t.Helper()
	app := fiber.New()
	handler := NewApplicationHandler(repo, nil)
	app.Patch("/admin/applications/:id", handler.HandleShortlist)
	return app
}

func patchShortlist(t *testing.T, app *fiber.App, id, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPatch, "/admin/applications/"+id, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestShortlistTogglesBothWays(t *testing.T) {
	repo := &stubApplicationRepo{
		app: &models.Application{
			ID:              uuid.New(),
			JobID:           uuid.New(),
			Name:            "Jordan Smith",
			Email:           "jordan@example.com",
			InterviewStatus: models.InterviewStatusCompleted,
		},
	}
	app := newShortlistApp(t, repo)

	for _, want := range []bool{true, false, true} {
		body := `{"shortlisted":false}`
		if want {
			body = `{"shortlisted":true}`
		}

		resp := patchShortlist(t, app, repo.app.ID.String(), body)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}

		var got models.Application
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if got.Shortlisted != want {
			t.Fatalf("response shortlisted = %v, want %v", got.Shortlisted, want)
		}
	}

	if len(repo.calls) != 3 {
		t.Fatalf("repository saw %d shortlist updates, want 3", len(repo.calls))
	}
	for i, want := range []bool{true, false, true} {
		if repo.calls[i].id != repo.app.ID {
			t.Errorf("call %d targeted %s, want %s", i, repo.calls[i].id, repo.app.ID)
		}
		if repo.calls[i].shortlisted != want {
			t.Errorf("call %d shortlisted = %v, want %v", i, repo.calls[i].shortlisted, want)
		}
	}
}

func TestShortlistRequiresField(t *testing.T) {
	repo := &stubApplicationRepo{app: &models.Application{ID: uuid.New()}}
	app := newShortlistApp(t, repo)

	resp := patchShortlist(t, app, repo.app.ID.String(), `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if len(repo.calls) != 0 {
		t.Fatalf("a rejected request reached the repository %d times", len(repo.calls))
	}
}

func TestShortlistRejectsInvalidID(t *testing.T) {
	repo := &stubApplicationRepo{app: &models.Application{ID: uuid.New()}}
	app := newShortlistApp(t, repo)

	resp := patchShortlist(t, app, "not-a-uuid", `{"shortlisted":true}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if len(repo.calls) != 0 {
		t.Fatalf("an invalid id reached the repository %d times", len(repo.calls))
	}
}
