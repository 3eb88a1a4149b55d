package email

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BlvckBrry/finance-tracker/internal/application/adapter"
	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
	"github.com/BlvckBrry/finance-tracker/internal/integration/email/templates"
	"github.com/BlvckBrry/finance-tracker/internal/integration/persistence"
	"github.com/BlvckBrry/finance-tracker/internal/integration/persistence/model"
)

func newQueue(t *testing.T) adapter.EmailQueueRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	// A pooled second connection would see its own empty in-memory database.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&model.EmailQueueModel{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return persistence.NewEmailQueueRepository(db)
}

func testNotification() adapter.LimitNotification {
	return adapter.LimitNotification{
		User: &entity.User{
			Email:    "user@example.com",
			Username: "tester",
		},
		TotalSpending: decimal.RequireFromString("850"),
		SpendingLimit: decimal.RequireFromString("1000"),
	}
}

func TestService(t *testing.T) {
	ctx := context.Background()

	t.Run("warning queues a pending job with template data", func(t *testing.T) {
		queue := newQueue(t)
		service := NewService(queue, "UAH")

		if err := service.NotifyWarning(ctx, testNotification()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		jobs, err := queue.GetByRecipient(ctx, "user@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(jobs) != 1 {
			t.Fatalf("expected 1 job, got %d", len(jobs))
		}
		job := jobs[0]
		if job.TemplateType != entity.TemplateLimitWarning {
			t.Errorf("expected %s, got %s", entity.TemplateLimitWarning, job.TemplateType)
		}
		if job.Status != entity.EmailStatusPending {
			t.Errorf("expected pending, got %s", job.Status)
		}
		if job.TemplateData["total_spending"] != "850.00" {
			t.Errorf("expected total 850.00, got %v", job.TemplateData["total_spending"])
		}
		if job.TemplateData["percent_used"] != "85%" {
			t.Errorf("expected 85%%, got %v", job.TemplateData["percent_used"])
		}
		if job.TemplateData["currency"] != "UAH" {
			t.Errorf("expected UAH, got %v", job.TemplateData["currency"])
		}
	})

	t.Run("exceeded queues the exceeded template", func(t *testing.T) {
		queue := newQueue(t)
		service := NewService(queue, "UAH")

		notification := testNotification()
		notification.TotalSpending = decimal.RequireFromString("1200")
		if err := service.NotifyExceeded(ctx, notification); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		jobs, err := queue.GetByRecipient(ctx, "user@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(jobs) != 1 || jobs[0].TemplateType != entity.TemplateLimitExceeded {
			t.Fatalf("expected one exceeded job, got %v", jobs)
		}
	})
}

func TestRenderer(t *testing.T) {
	renderer, err := templates.NewRenderer()
	if err != nil {
		t.Fatalf("failed to build renderer: %v", err)
	}

	data := map[string]interface{}{
		"user_name":      "tester",
		"total_spending": "850.00",
		"spending_limit": "1000.00",
		"currency":       "UAH",
		"percent_used":   "85%",
	}

	for _, name := range []string{string(entity.TemplateLimitWarning), string(entity.TemplateLimitExceeded)} {
		t.Run(name, func(t *testing.T) {
			html, text, err := renderer.Render(name, data)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(html, "tester") || !strings.Contains(text, "tester") {
				t.Error("expected the recipient name in both bodies")
			}
			if !strings.Contains(text, "850.00") {
				t.Error("expected the spending figure in the text body")
			}
		})
	}

	t.Run("unknown template is an error", func(t *testing.T) {
		if _, _, err := renderer.Render("nope", data); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestWorker(t *testing.T) {
	ctx := context.Background()

	newWorkerFixture := func(t *testing.T) (adapter.EmailQueueRepository, *MockEmailSender, *Worker) {
		t.Helper()
		queue := newQueue(t)
		sender := NewMockEmailSender()
		renderer, err := templates.NewRenderer()
		if err != nil {
			t.Fatalf("failed to build renderer: %v", err)
		}
		worker := NewWorker(queue, sender, renderer, WorkerConfig{
			PollInterval: 10 * time.Millisecond,
			BatchSize:    10,
		})
		return queue, sender, worker
	}

	t.Run("sends pending jobs and marks them sent", func(t *testing.T) {
		queue, sender, worker := newWorkerFixture(t)
		service := NewService(queue, "UAH")
		if err := service.NotifyWarning(ctx, testNotification()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		worker.processBatch(ctx)

		if len(sender.SentEmails) != 1 {
			t.Fatalf("expected 1 sent email, got %d", len(sender.SentEmails))
		}
		sent := sender.SentEmails[0]
		if sent.To != "user@example.com" {
			t.Errorf("expected recipient user@example.com, got %s", sent.To)
		}
		if !strings.Contains(sent.Subject, "warning") {
			t.Errorf("unexpected subject %q", sent.Subject)
		}
		if !strings.Contains(sent.Text, "850.00") {
			t.Error("expected the rendered body to carry the spending figure")
		}

		jobs, err := queue.GetByRecipient(ctx, "user@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if jobs[0].Status != entity.EmailStatusSent {
			t.Errorf("expected sent, got %s", jobs[0].Status)
		}
	})

	t.Run("transient failures leave the job pending for retry", func(t *testing.T) {
		queue, sender, worker := newWorkerFixture(t)
		service := NewService(queue, "UAH")
		if err := service.NotifyWarning(ctx, testNotification()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		sender.SetFailure(nil, false)

		worker.processBatch(ctx)

		jobs, err := queue.GetByRecipient(ctx, "user@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		job := jobs[0]
		if job.Status != entity.EmailStatusPending {
			t.Errorf("expected pending, got %s", job.Status)
		}
		if job.Attempts != 1 {
			t.Errorf("expected 1 attempt, got %d", job.Attempts)
		}
	})

	t.Run("permanent failures mark the job failed", func(t *testing.T) {
		queue, sender, worker := newWorkerFixture(t)
		service := NewService(queue, "UAH")
		if err := service.NotifyWarning(ctx, testNotification()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		sender.SetFailure(nil, true)

		worker.processBatch(ctx)

		jobs, err := queue.GetByRecipient(ctx, "user@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if jobs[0].Status != entity.EmailStatusFailed {
			t.Errorf("expected failed, got %s", jobs[0].Status)
		}
	})
}
