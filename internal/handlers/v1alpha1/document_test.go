package v1alpha1_test

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	api "github.com/esgdesk/extraction-review/api/v1alpha1"
	"github.com/esgdesk/extraction-review/internal/classifier"
	handlers "github.com/esgdesk/extraction-review/internal/handlers/v1alpha1"
	"github.com/esgdesk/extraction-review/internal/service"
	"github.com/esgdesk/extraction-review/internal/store"
	"github.com/esgdesk/extraction-review/internal/store/model"
	"github.com/go-chi/chi/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func uploadRequest(orgID, fileName string, data []byte) *http.Request {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if orgID != "" {
		Expect(mw.WriteField("org_id", orgID)).To(Succeed())
	}
	part, err := mw.CreateFormFile("file", fileName)
	Expect(err).To(BeNil())
	_, err = part.Write(data)
	Expect(err).To(BeNil())
	Expect(mw.Close()).To(Succeed())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

var _ = Describe("document handlers", Ordered, func() {
	var (
		s      store.Store
		gormDB *gorm.DB
		cl     *testClassifier
		router *chi.Mux
	)

	BeforeAll(func() {
		s, gormDB = newTestStore()
		cl = &testClassifier{}

		audit := service.NewAuditWriter(s, nil)
		h := handlers.NewServiceHandler(
			service.NewReviewService(s),
			service.NewApprovalService(s, audit),
			audit,
			service.NewDocumentService(s, &testStorage{objects: map[string][]byte{}}, cl, nil),
			handlers.WithMaxUploadBytes(1<<20),
		)
		router = chi.NewRouter()
		h.RegisterRoutes(router)
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		cl.result, cl.err = nil, nil
		cleanup(gormDB)
	})

	It("uploads and classifies a document", func() {
		cl.result = &classifier.Classification{
			DocumentType: "lista_fornecedores",
			Extractions: []classifier.Extraction{
				{
					TargetTable:      model.TargetSuppliers,
					ExtractedFields:  supplierFields("Acme"),
					ConfidenceScores: map[string]float64{"name": 95, "document_number": 90, "category": 80},
				},
			},
		}

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, uploadRequest("org", "fornecedores.pdf", []byte("%PDF-1.4 data")))
		Expect(rec.Code).To(Equal(http.StatusCreated))

		resp := decode[api.UploadResponse](rec)
		Expect(resp.Document.FileName).To(Equal("fornecedores.pdf"))
		Expect(resp.Job.Status).To(Equal(model.JobStatusCompleted))
		Expect(resp.Previews).To(HaveLen(1))
		Expect(resp.Previews[0].ConfidenceScores["name"]).To(BeNumerically("~", 0.95, 1e-9))

		rec = do(router, http.MethodGet, "/api/v1/jobs/"+resp.Job.Id.String(), nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(decode[api.Job](rec).DocumentType).To(Equal("lista_fornecedores"))
	})

	It("requires an organization", func() {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, uploadRequest("", "fornecedores.pdf", []byte("data")))
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(count(gormDB, "SELECT COUNT(*) FROM documents")).To(Equal(0))
	})

	It("reports a classifier failure as a bad gateway", func() {
		cl.err = errors.New("gateway unavailable")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, uploadRequest("org", "fornecedores.pdf", []byte("data")))
		Expect(rec.Code).To(Equal(http.StatusBadGateway))
		Expect(count(gormDB, "SELECT COUNT(*) FROM extraction_jobs WHERE status = 'failed'")).To(Equal(1))
	})

	It("refuses a request that is not multipart", func() {
		rec := do(router, http.MethodPost, "/api/v1/documents", map[string]string{"org_id": "org"})
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("answers 404 for an unknown job", func() {
		rec := do(router, http.MethodGet, "/api/v1/jobs/0b7f0c36-6a43-4b86-9b39-2b1f4f5b3c11", nil)
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})
})
