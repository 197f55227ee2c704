package v1alpha1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"

	"github.com/esgdesk/extraction-review/internal/classifier"
	"github.com/esgdesk/extraction-review/internal/config"
	"github.com/esgdesk/extraction-review/internal/store"
	"github.com/esgdesk/extraction-review/internal/store/model"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	insertDocumentStm = "INSERT INTO documents (id, org_id, file_name, file_path, size, created_at) VALUES ('%s', 'org', 'fornecedores.pdf', 'org/fornecedores.pdf', 10, CURRENT_TIMESTAMP);"
	insertJobStm      = "INSERT INTO extraction_jobs (id, org_id, document_id, status, created_at) VALUES ('%s', 'org', '%s', 'completed', CURRENT_TIMESTAMP);"
)

var cleanupStms = []string{
	"DELETE FROM extraction_approval_logs;",
	"DELETE FROM extraction_previews;",
	"DELETE FROM extraction_jobs;",
	"DELETE FROM documents;",
	"DELETE FROM suppliers;",
	"DELETE FROM waste_logs;",
	"DELETE FROM licenses;",
}

func newTestStore() (store.Store, *gorm.DB) {
	cfg := config.NewDefault()
	cfg.Database.Type = "sqlite"
	cfg.Database.Name = filepath.Join(GinkgoT().TempDir(), "handlers.db")

	db, err := store.InitDB(cfg)
	Expect(err).To(BeNil())

	s := store.NewStore(db)
	Expect(s.InitialMigration()).To(BeNil())
	return s, db
}

func cleanup(gormDB *gorm.DB) {
	for _, stm := range cleanupStms {
		gormDB.Exec(stm)
	}
}

func insertJob(gormDB *gorm.DB) uuid.UUID {
	docID := uuid.New()
	jobID := uuid.New()
	Expect(gormDB.Exec(fmt.Sprintf(insertDocumentStm, docID)).Error).To(BeNil())
	Expect(gormDB.Exec(fmt.Sprintf(insertJobStm, jobID, docID)).Error).To(BeNil())
	return jobID
}

func createPreview(s store.Store, jobID uuid.UUID, table string, fields map[string]any, scores map[string]float64) model.ExtractionPreview {
	p, err := s.Preview().Create(context.TODO(), model.ExtractionPreview{
		ExtractionJobID:  jobID,
		OrgID:            "org",
		TargetTable:      table,
		ExtractedFields:  datatypes.JSONMap(fields),
		ConfidenceScores: datatypes.NewJSONType(scores),
	})
	Expect(err).To(BeNil())
	return *p
}

func supplierFields(name string) map[string]any {
	return map[string]any{"name": name, "document_number": "12.345.678/0001-90", "category": "services"}
}

func uniformScores(fields map[string]any, score float64) map[string]float64 {
	scores := make(map[string]float64, len(fields))
	for k := range fields {
		scores[k] = score
	}
	return scores
}

func previewStatus(gormDB *gorm.DB, id uuid.UUID) string {
	var status string
	Expect(gormDB.Raw("SELECT validation_status FROM extraction_previews WHERE id = ?", id.String()).Scan(&status).Error).To(BeNil())
	return status
}

func count(gormDB *gorm.DB, stm string, args ...any) int {
	n := -1
	Expect(gormDB.Raw(stm, args...).Scan(&n).Error).To(BeNil())
	return n
}

func do(h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		Expect(err).To(BeNil())
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](rec *httptest.ResponseRecorder) T {
	var v T
	Expect(json.Unmarshal(rec.Body.Bytes(), &v)).To(Succeed())
	return v
}

type testStorage struct {
	objects map[string][]byte
}

func (t *testStorage) Upload(_ context.Context, key string, data []byte, _ string) error {
	t.objects[key] = data
	return nil
}

func (t *testStorage) Download(_ context.Context, key string) ([]byte, error) {
	data, ok := t.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return data, nil
}

func (t *testStorage) Delete(_ context.Context, key string) error {
	delete(t.objects, key)
	return nil
}

type testClassifier struct {
	result *classifier.Classification
	err    error
}

func (t *testClassifier) Classify(_ context.Context, _ classifier.Request) (*classifier.Classification, error) {
	return t.result, t.err
}
