package documents_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/documents"
	"resume-analyzer/internal/shared/storage/object/local"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := &documents.Service{
		Store: local.New(t.TempDir()),
		Repo:  documents.NewMemoryRepo(),
	}
	router := gin.New()
	documents.NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func uploadFile(t *testing.T, router *gin.Engine, name, content string) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fileWriter, err := writer.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write([]byte(content)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestDocumentsUploadAndCurrent(t *testing.T) {
	router := newTestRouter(t)

	resp := uploadFile(t, router, "hello.txt", "hello world")
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created documents.DocumentResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.DocumentID == "" {
		t.Fatal("expected documentId, got empty")
	}
	if created.Status != documents.StatusUploaded {
		t.Fatalf("expected status uploaded, got %q", created.Status)
	}

	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/documents/current", nil)
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)

	if respGet.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respGet.Code)
	}

	var current documents.DocumentResponse
	if err := json.NewDecoder(respGet.Body).Decode(&current); err != nil {
		t.Fatalf("decode current response: %v", err)
	}
	if current.FileName != "hello.txt" {
		t.Fatalf("expected fileName hello.txt, got %s", current.FileName)
	}
	if current.DocumentID != created.DocumentID {
		t.Fatalf("current documentId %s does not match created %s", current.DocumentID, created.DocumentID)
	}
}

func TestDocumentsGetByID(t *testing.T) {
	router := newTestRouter(t)

	resp := uploadFile(t, router, "hello.txt", "hello world")
	if resp.Code != http.StatusCreated {
		t.Fatalf("upload: %d", resp.Code)
	}
	var created documents.DocumentResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+created.DocumentID, nil)
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)

	if respGet.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respGet.Code)
	}
	var fetched documents.DocumentResponse
	if err := json.NewDecoder(respGet.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode get response: %v", err)
	}
	if fetched.DocumentID != created.DocumentID {
		t.Fatalf("expected documentId %s, got %s", created.DocumentID, fetched.DocumentID)
	}

	reqMissing := httptest.NewRequest(http.MethodGet, "/api/v1/documents/no-such-doc", nil)
	respMissing := httptest.NewRecorder()
	router.ServeHTTP(respMissing, reqMissing)
	if respMissing.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", respMissing.Code)
	}
}

func TestDocumentsUploadDeduplicates(t *testing.T) {
	router := newTestRouter(t)

	first := uploadFile(t, router, "resume.txt", "same bytes")
	if first.Code != http.StatusCreated {
		t.Fatalf("first upload: %d", first.Code)
	}
	var firstDoc documents.DocumentResponse
	if err := json.NewDecoder(first.Body).Decode(&firstDoc); err != nil {
		t.Fatal(err)
	}

	second := uploadFile(t, router, "renamed.txt", "same bytes")
	if second.Code != http.StatusCreated {
		t.Fatalf("second upload: %d", second.Code)
	}
	var secondDoc documents.DocumentResponse
	if err := json.NewDecoder(second.Body).Decode(&secondDoc); err != nil {
		t.Fatal(err)
	}

	if secondDoc.DocumentID != firstDoc.DocumentID {
		t.Fatalf("identical content should return the same document, got %s and %s",
			firstDoc.DocumentID, secondDoc.DocumentID)
	}

	reqList := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	respList := httptest.NewRecorder()
	router.ServeHTTP(respList, reqList)
	if respList.Code != http.StatusOK {
		t.Fatalf("list: %d", respList.Code)
	}
	var listed []documents.DocumentResponse
	if err := json.NewDecoder(respList.Body).Decode(&listed); err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 document after dedupe, got %d", len(listed))
	}
}

func TestDocumentsUploadRequiresFile(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", strings.NewReader("not multipart"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestDocumentsCreateFromS3(t *testing.T) {
	router := newTestRouter(t)

	payload := `{"s3Key":"resumes/abc.pdf","originalFileName":"abc.pdf","contentType":"application/pdf","sizeBytes":1234}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/from-s3", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created documents.DocumentResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.FileName != "abc.pdf" || created.SizeBytes != 1234 {
		t.Fatalf("unexpected response: %+v", created)
	}
}

func TestDocumentsCreateFromS3KeepsPresignedID(t *testing.T) {
	router := newTestRouter(t)

	const docID = "7f0f3f0a-9f9f-4a22-8a30-0a4971d2c5d1"
	payload := `{"s3Key":"documents/` + docID + `/file-1-resume.pdf","originalFileName":"resume.pdf","contentType":"application/pdf","sizeBytes":2048}`

	post := func() documents.DocumentResponse {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/from-s3", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
		}
		var created documents.DocumentResponse
		if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
			t.Fatal(err)
		}
		return created
	}

	first := post()
	if first.DocumentID != docID {
		t.Fatalf("expected document to keep presigned id %s, got %s", docID, first.DocumentID)
	}

	second := post()
	if second.DocumentID != docID {
		t.Fatalf("retry should return the same document, got %s", second.DocumentID)
	}
}

func TestDocumentsCreateFromS3Validation(t *testing.T) {
	router := newTestRouter(t)

	payload := `{"s3Key":"","originalFileName":"abc.pdf","contentType":"application/pdf","sizeBytes":10}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/from-s3", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}
