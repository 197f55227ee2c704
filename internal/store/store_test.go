package store_test

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/esgdesk/extraction-review/internal/config"
	st "github.com/esgdesk/extraction-review/internal/store"
	"github.com/esgdesk/extraction-review/internal/store/model"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	insertDocumentStm = "INSERT INTO documents (id, org_id, file_name, file_path, size, created_at) VALUES ('%s', 'org', 'nf.pdf', 'org/nf.pdf', 10, CURRENT_TIMESTAMP);"
	insertJobStm      = "INSERT INTO extraction_jobs (id, org_id, document_id, status, created_at) VALUES ('%s', 'org', '%s', 'completed', CURRENT_TIMESTAMP);"
)

func newTestStore() (st.Store, *gorm.DB) {
	cfg := config.NewDefault()
	cfg.Database.Type = "sqlite"
	cfg.Database.Name = filepath.Join(GinkgoT().TempDir(), "review.db")

	db, err := st.InitDB(cfg)
	Expect(err).To(BeNil())

	s := st.NewStore(db)
	Expect(s.InitialMigration()).To(BeNil())
	return s, db
}

func insertJob(gormDB *gorm.DB) uuid.UUID {
	docID := uuid.New()
	jobID := uuid.New()
	Expect(gormDB.Exec(fmt.Sprintf(insertDocumentStm, docID)).Error).To(BeNil())
	Expect(gormDB.Exec(fmt.Sprintf(insertJobStm, jobID, docID)).Error).To(BeNil())
	return jobID
}

func newPreview(jobID uuid.UUID, table string, fields map[string]any, scores map[string]float64) model.ExtractionPreview {
	return model.ExtractionPreview{
		ExtractionJobID:  jobID,
		OrgID:            "org",
		TargetTable:      table,
		ExtractedFields:  datatypes.JSONMap(fields),
		ConfidenceScores: datatypes.NewJSONType(scores),
	}
}

var _ = Describe("Store", Ordered, func() {
	var (
		store  st.Store
		gormDB *gorm.DB
	)

	BeforeAll(func() {
		store, gormDB = newTestStore()
	})

	AfterAll(func() {
		store.Close()
	})

	AfterEach(func() {
		gormDB.Exec("DELETE FROM extraction_approval_logs;")
		gormDB.Exec("DELETE FROM extraction_previews;")
		gormDB.Exec("DELETE FROM extraction_jobs;")
		gormDB.Exec("DELETE FROM documents;")
		gormDB.Exec("DELETE FROM suppliers;")
	})

	Context("transaction", func() {
		It("commits a preview successfully", func() {
			jobID := insertJob(gormDB)

			ctx, err := store.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			preview, err := store.Preview().Create(ctx, newPreview(jobID, model.TargetSuppliers, map[string]any{"name": "ACME"}, map[string]float64{"name": 0.9}))
			Expect(err).To(BeNil())
			Expect(preview.ValidationStatus).To(Equal(model.PreviewStatusPending))

			_, err = st.Commit(ctx)
			Expect(err).To(BeNil())

			count := 0
			Expect(gormDB.Raw("SELECT COUNT(*) FROM extraction_previews;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(1))
		})

		It("rolls back a preview successfully", func() {
			jobID := insertJob(gormDB)

			ctx, err := store.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			_, err = store.Preview().Create(ctx, newPreview(jobID, model.TargetSuppliers, map[string]any{"name": "ACME"}, nil))
			Expect(err).To(BeNil())

			_, err = st.Rollback(ctx)
			Expect(err).To(BeNil())

			count := -1
			Expect(gormDB.Raw("SELECT COUNT(*) FROM extraction_previews;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(0))
		})

		It("reuses the transaction carried by the context", func() {
			ctx, err := store.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			nested, err := store.NewTransactionContext(ctx)
			Expect(err).To(BeNil())
			Expect(st.FromContext(nested)).To(BeIdenticalTo(st.FromContext(ctx)))

			_, err = st.Rollback(ctx)
			Expect(err).To(BeNil())
		})
	})

	Context("preview", func() {
		It("lists pending previews newest first with job and document", func() {
			jobID := insertJob(gormDB)

			older := newPreview(jobID, model.TargetSuppliers, map[string]any{"name": "A"}, nil)
			older.CreatedAt = time.Now().Add(-time.Hour)
			first, err := store.Preview().Create(context.TODO(), older)
			Expect(err).To(BeNil())
			second, err := store.Preview().Create(context.TODO(), newPreview(jobID, model.TargetSuppliers, map[string]any{"name": "B"}, nil))
			Expect(err).To(BeNil())

			rejected := newPreview(jobID, model.TargetSuppliers, map[string]any{"name": "C"}, nil)
			rejected.ValidationStatus = model.PreviewStatusRejected
			_, err = store.Preview().Create(context.TODO(), rejected)
			Expect(err).To(BeNil())

			previews, err := store.Preview().List(context.TODO(),
				st.NewPreviewQueryFilter().ByStatus(model.PreviewStatusPending).ByOrgID("org"),
				st.NewPreviewQueryOptions().WithSortOrder(st.SortByCreatedTimeDesc).WithJobAndDocument())
			Expect(err).To(BeNil())
			Expect(previews).To(HaveLen(2))
			Expect(previews[0].ID).To(Equal(second.ID))
			Expect(previews[1].ID).To(Equal(first.ID))
			Expect(previews[0].Job).ToNot(BeNil())
			Expect(previews[0].Job.Document).ToNot(BeNil())
			Expect(previews[0].Job.Document.FileName).To(Equal("nf.pdf"))
		})

		It("counts previews by target table", func() {
			jobID := insertJob(gormDB)
			for _, table := range []string{model.TargetSuppliers, model.TargetSuppliers, model.TargetLicenses} {
				_, err := store.Preview().Create(context.TODO(), newPreview(jobID, table, map[string]any{"x": 1}, nil))
				Expect(err).To(BeNil())
			}

			counts, err := store.Preview().CountByTargetTable(context.TODO(), model.PreviewStatusPending)
			Expect(err).To(BeNil())
			Expect(counts).To(Equal(map[string]int64{model.TargetSuppliers: 2, model.TargetLicenses: 1}))
		})

		It("returns ErrRecordNotFound for an unknown preview", func() {
			_, err := store.Preview().Get(context.TODO(), uuid.New())
			Expect(err).To(MatchError(st.ErrRecordNotFound))
		})

		It("round-trips the json columns", func() {
			jobID := insertJob(gormDB)
			p := newPreview(jobID, model.TargetSuppliers, map[string]any{"name": "ACME", "category": "services"}, map[string]float64{"name": 0.9})
			p.SuggestedMappings = datatypes.NewJSONType(model.SuggestedMappings{DataQualityIssues: []string{"blurry scan"}})

			created, err := store.Preview().Create(context.TODO(), p)
			Expect(err).To(BeNil())

			got, err := store.Preview().Get(context.TODO(), created.ID)
			Expect(err).To(BeNil())
			Expect(got.Fields()).To(HaveKeyWithValue("name", "ACME"))
			Expect(got.Scores()).To(HaveKeyWithValue("name", 0.9))
			Expect(got.SuggestedMappings.Data().DataQualityIssues).To(ConsistOf("blurry scan"))
		})

		It("transitions a pending preview once", func() {
			jobID := insertJob(gormDB)
			created, err := store.Preview().Create(context.TODO(), newPreview(jobID, model.TargetSuppliers, map[string]any{"name": "ACME"}, nil))
			Expect(err).To(BeNil())

			err = store.Preview().Transition(context.TODO(), created.ID, model.PreviewStatusPending, model.PreviewStatusApproved)
			Expect(err).To(BeNil())

			err = store.Preview().Transition(context.TODO(), created.ID, model.PreviewStatusPending, model.PreviewStatusRejected)
			Expect(err).To(MatchError(st.ErrStatusConflict))

			got, err := store.Preview().Get(context.TODO(), created.ID)
			Expect(err).To(BeNil())
			Expect(got.ValidationStatus).To(Equal(model.PreviewStatusApproved))
			Expect(got.ReviewedAt).ToNot(BeNil())
		})
	})

	Context("target", func() {
		It("inserts a row into the target table", func() {
			id, err := store.Target().Insert(context.TODO(), model.TargetSuppliers, "org", map[string]any{
				"name":            "ACME",
				"document_number": "12.345.678/0001-90",
				"category":        "services",
			})
			Expect(err).To(BeNil())
			Expect(id).ToNot(Equal(uuid.Nil))

			count, err := store.Target().Count(context.TODO(), model.TargetSuppliers)
			Expect(err).To(BeNil())
			Expect(count).To(BeEquivalentTo(1))

			var name string
			Expect(gormDB.Raw("SELECT name FROM suppliers WHERE id = ?", id.String()).Scan(&name).Error).To(BeNil())
			Expect(name).To(Equal("ACME"))
		})

		It("rejects an unknown table", func() {
			_, err := store.Target().Insert(context.TODO(), "users", "org", map[string]any{"name": "x"})
			Expect(err).To(MatchError(st.ErrUnknownTargetTable))
		})

		It("rejects an empty field set", func() {
			_, err := store.Target().Insert(context.TODO(), model.TargetSuppliers, "org", map[string]any{})
			Expect(err).To(MatchError(st.ErrEmptyReconciliation))
		})

		It("fails on a column the table does not have", func() {
			_, err := store.Target().Insert(context.TODO(), model.TargetSuppliers, "org", map[string]any{"name": "ACME", "not_a_column": 1})
			Expect(err).ToNot(BeNil())

			count, err := store.Target().Count(context.TODO(), model.TargetSuppliers)
			Expect(err).To(BeNil())
			Expect(count).To(BeEquivalentTo(0))
		})
	})

	Context("approval log", func() {
		It("creates and filters entries", func() {
			previewID := uuid.New()
			high := 3
			_, err := store.ApprovalLog().Create(context.TODO(), model.ApprovalLog{
				PreviewID:           previewID,
				JobID:               uuid.New(),
				OrgID:               "org",
				Action:              model.ApprovalActionBatchApproved,
				ItemsCount:          4,
				HighConfidenceCount: &high,
			})
			Expect(err).To(BeNil())
			_, err = store.ApprovalLog().Create(context.TODO(), model.ApprovalLog{
				PreviewID: uuid.New(),
				JobID:     uuid.New(),
				OrgID:     "org",
				Action:    model.ApprovalActionRejected,
			})
			Expect(err).To(BeNil())

			entries, err := store.ApprovalLog().List(context.TODO(), st.NewApprovalLogQueryFilter().ByPreviewID(previewID))
			Expect(err).To(BeNil())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Action).To(Equal(model.ApprovalActionBatchApproved))
			Expect(*entries[0].HighConfidenceCount).To(Equal(3))

			entries, err = store.ApprovalLog().List(context.TODO(), nil)
			Expect(err).To(BeNil())
			Expect(entries).To(HaveLen(2))
		})
	})

	Context("job", func() {
		It("completes and fails jobs", func() {
			jobID := insertJob(gormDB)
			Expect(store.Job().Fail(context.TODO(), jobID, "gateway down")).To(BeNil())

			job, err := store.Job().Get(context.TODO(), jobID)
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(model.JobStatusFailed))
			Expect(*job.ErrorMessage).To(Equal("gateway down"))
			Expect(job.Document).ToNot(BeNil())

			Expect(store.Job().Complete(context.TODO(), uuid.New(), "nota_fiscal")).To(MatchError(st.ErrRecordNotFound))
		})
	})
})
