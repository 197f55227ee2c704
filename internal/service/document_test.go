package service_test

import (
	"context"
	"errors"

	"github.com/esgdesk/extraction-review/internal/classifier"
	"github.com/esgdesk/extraction-review/internal/events"
	"github.com/esgdesk/extraction-review/internal/service"
	"github.com/esgdesk/extraction-review/internal/store"
	"github.com/esgdesk/extraction-review/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("document service", Ordered, func() {
	var (
		s      store.Store
		gormDB *gorm.DB
		st     *testStorage
		cl     *testClassifier
		ew     *testEventWriter
		svc    *service.DocumentService
	)

	BeforeAll(func() {
		s, gormDB = newTestStore()
	})

	AfterAll(func() {
		s.Close()
	})

	BeforeEach(func() {
		st = newTestStorage()
		cl = &testClassifier{}
		ew = newTestEventWriter()
		svc = service.NewDocumentService(s, st, cl, ew)
	})

	AfterEach(func() {
		cleanup(gormDB)
	})

	form := service.UploadForm{
		OrgID:       "org",
		FileName:    "licenca.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4"),
	}

	It("stores, classifies and persists normalized previews", func() {
		cl.result = &classifier.Classification{
			DocumentType: "licenca_ambiental",
			Extractions: []classifier.Extraction{
				{
					TargetTable:      model.TargetLicenses,
					ExtractedFields:  map[string]any{"license_name": "LO 42"},
					ConfidenceScores: map[string]float64{"license_name": 92, "license_type": 0.5},
					SuggestedMappings: model.SuggestedMappings{
						DataQualityIssues: []string{"missing expiration date"},
					},
				},
			},
		}

		result, err := svc.Upload(context.TODO(), form)
		Expect(err).To(BeNil())
		Expect(result.Job.Status).To(Equal(model.JobStatusCompleted))
		Expect(result.Job.DocumentType).To(Equal("licenca_ambiental"))
		Expect(result.Previews).To(HaveLen(1))

		Expect(st.objects).To(HaveKey(result.Document.FilePath))
		Expect(cl.calls).To(HaveLen(1))
		Expect(cl.calls[0].FilePath).To(Equal(result.Document.FilePath))

		preview, err := s.Preview().Get(context.TODO(), result.Previews[0].ID)
		Expect(err).To(BeNil())
		Expect(preview.ValidationStatus).To(Equal(model.PreviewStatusPending))
		Expect(preview.Scores()["license_name"]).To(BeNumerically("~", 0.92, 1e-9))
		Expect(preview.Scores()["license_type"]).To(BeNumerically("~", 0.5, 1e-9))
		Expect(preview.SuggestedMappings.Data().DataQualityIssues).To(ConsistOf("missing expiration date"))
		Expect(preview.Job.Document.FileName).To(Equal("licenca.pdf"))

		job, err := svc.GetJob(context.TODO(), result.Job.ID)
		Expect(err).To(BeNil())
		Expect(job.Status).To(Equal(model.JobStatusCompleted))
		Expect(job.FinishedAt).ToNot(BeNil())

		Expect(ew.Kinds()).To(Equal([]string{events.JobFinishedKind}))
	})

	It("fails the job when the classifier fails", func() {
		cl.err = errors.New("gateway timeout")

		result, err := svc.Upload(context.TODO(), form)
		var cerr *service.ErrClassification
		Expect(errors.As(err, &cerr)).To(BeTrue())
		Expect(result).ToNot(BeNil())
		Expect(result.Job.Status).To(Equal(model.JobStatusFailed))

		job, err := svc.GetJob(context.TODO(), result.Job.ID)
		Expect(err).To(BeNil())
		Expect(job.Status).To(Equal(model.JobStatusFailed))
		Expect(*job.ErrorMessage).To(ContainSubstring("gateway timeout"))
		Expect(count(gormDB, "SELECT COUNT(*) FROM extraction_previews")).To(Equal(0))
	})

	It("fails the job on an unknown target table and persists nothing", func() {
		cl.result = &classifier.Classification{
			DocumentType: "nota_fiscal",
			Extractions: []classifier.Extraction{
				{TargetTable: model.TargetSuppliers, ExtractedFields: supplierFields("ACME")},
				{TargetTable: "invoices", ExtractedFields: map[string]any{"total": 10}},
			},
		}

		result, err := svc.Upload(context.TODO(), form)
		var cerr *service.ErrClassification
		Expect(errors.As(err, &cerr)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("invoices"))
		Expect(result.Job.Status).To(Equal(model.JobStatusFailed))
		Expect(count(gormDB, "SELECT COUNT(*) FROM extraction_previews")).To(Equal(0))
	})

	It("rejects an upload without org", func() {
		_, err := svc.Upload(context.TODO(), service.UploadForm{FileName: "x.pdf", Data: []byte("x")})
		var berr *service.ErrBadRequest
		Expect(errors.As(err, &berr)).To(BeTrue())
		Expect(st.objects).To(BeEmpty())
	})

	It("does not create a job when storage fails", func() {
		st.failPut = errors.New("bucket unavailable")

		_, err := svc.Upload(context.TODO(), form)
		Expect(err).To(MatchError(ContainSubstring("bucket unavailable")))
		Expect(count(gormDB, "SELECT COUNT(*) FROM extraction_jobs")).To(Equal(0))
	})
})
