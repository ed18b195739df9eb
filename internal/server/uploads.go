package server

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"eerr/eerr-dashboard/internal/container"
	"eerr/eerr-dashboard/internal/ledger"
	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/parser"
	"eerr/eerr-dashboard/internal/sheetparser"
)

const formFile = "file"

// openUpload returns the uploaded file of the request, enforcing the size limit.
func (s *Server) openUpload(c *gin.Context) (multipart.File, *multipart.FileHeader, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload)
	header, err := c.FormFile(formFile)
	if err != nil {
		fail(c, http.StatusBadRequest, fmt.Sprintf("missing %q upload: %v", formFile, err))
		return nil, nil, false
	}
	f, err := header.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "cannot read upload: "+err.Error())
		return nil, nil, false
	}
	return f, header, true
}

func (s *Server) loadWorkbook(c *gin.Context) (*sheetparser.Workbook, bool) {
	f, header, good := s.openUpload(c)
	if !good {
		return nil, false
	}
	defer func() { _ = f.Close() }()

	book, err := sheetparser.LoadWorkbook(f, header.Filename)
	if err != nil {
		failErr(c, err)
		return nil, false
	}
	return book, true
}

// uploadConsolidado parses the sections of a Consolidado workbook.
func (s *Server) uploadConsolidado(c *gin.Context) {
	book, good := s.loadWorkbook(c)
	if !good {
		return
	}
	sections, err := s.c.GetSheetParser().ParseConsolidadoWorkbook(book)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, sections)
}

// uploadEERR parses every EERR sheet of a workbook.
func (s *Server) uploadEERR(c *gin.Context) {
	book, good := s.loadWorkbook(c)
	if !good {
		return
	}
	statements, err := s.c.GetSheetParser().ParseEERRWorkbook(book)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, statements)
}

// ImportResponse summarises a ledger import.
type ImportResponse struct {
	ImportID string `json:"importId"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Sucursal string `json:"sucursal,omitempty"`
}

// importLedger reads a Libro de Compras upload (xlsx or csv, by file
// extension) and stores its transactions.
func (s *Server) importLedger(c *gin.Context) {
	f, header, good := s.openUpload(c)
	if !good {
		return
	}
	defer func() { _ = f.Close() }()

	sucursal := c.PostForm("sucursal")
	if sucursal == "" {
		sucursal = s.c.GetBatchAggregator().BranchFromFilename(header.Filename)
	}
	opts := ledger.Options{Sucursal: sucursal}

	reader, err := s.c.GetLedgerReader(container.LedgerFormatOf(header.Filename), opts)
	if err != nil {
		failErr(c, err)
		return
	}
	if lc, isConfigurable := reader.(parser.LoggerConfigurable); isConfigurable {
		lc.SetLogger(s.logger.WithField(logging.FieldUser, userID(c)))
	}
	res, err := reader.Import(f)
	if err != nil {
		failErr(c, err)
		return
	}

	if err := s.repo.InsertTransactions(c.Request.Context(), userID(c), res.Transactions); err != nil {
		failErr(c, err)
		return
	}

	s.logger.Info("Ledger imported",
		logging.Field{Key: logging.FieldUser, Value: userID(c)},
		logging.Field{Key: logging.FieldInputFile, Value: filepath.Base(header.Filename)},
		logging.Field{Key: logging.FieldCount, Value: len(res.Transactions)})
	ok(c, ImportResponse{
		ImportID: res.ImportID,
		Imported: len(res.Transactions),
		Skipped:  res.Skipped,
		Sucursal: sucursal,
	})
}

func (s *Server) deleteImport(c *gin.Context) {
	n, err := s.repo.DeleteImport(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	if n == 0 {
		fail(c, http.StatusNotFound, "import not found")
		return
	}
	ok(c, gin.H{"deleted": n})
}

