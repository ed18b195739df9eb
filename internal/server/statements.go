package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"eerr/eerr-dashboard/internal/models"
	"eerr/eerr-dashboard/internal/parsererror"
	"eerr/eerr-dashboard/internal/report"
	"eerr/eerr-dashboard/internal/repository"
	"eerr/eerr-dashboard/internal/statement"
	"eerr/eerr-dashboard/internal/table"
)

// statementRequest reads the from, to and sucursal query parameters.
func statementRequest(c *gin.Context) (statement.Request, error) {
	req := statement.Request{UserID: userID(c), Sucursal: c.Query("sucursal")}
	for name, dst := range map[string]*models.Period{"from": &req.From, "to": &req.To} {
		v := c.Query(name)
		if v == "" {
			continue
		}
		p, err := models.ParsePeriod(v)
		if err != nil {
			return req, &parsererror.ValidationError{Field: name, Reason: err.Error()}
		}
		*dst = p
	}
	if !req.From.IsZero() && !req.To.IsZero() && req.To.Before(req.From) {
		return req, &parsererror.ValidationError{Field: "to", Reason: "before from"}
	}
	return req, nil
}

func (s *Server) getStatement(c *gin.Context) {
	req, err := statementRequest(c)
	if err != nil {
		failErr(c, err)
		return
	}
	data, err := s.svc.Statement(c.Request.Context(), req)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, data)
}

func (s *Server) getConsolidated(c *gin.Context) {
	req, err := statementRequest(c)
	if err != nil {
		failErr(c, err)
		return
	}
	data, err := s.svc.Consolidated(c.Request.Context(), req)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, data)
}

func (s *Server) getPeriodStatement(c *gin.Context) {
	p, err := models.ParsePeriod(c.Param("period"))
	if err != nil {
		failErr(c, &parsererror.ValidationError{Field: "period", Reason: err.Error()})
		return
	}
	data, err := s.svc.PeriodStatement(c.Request.Context(), userID(c), c.Query("sucursal"), p)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, data)
}

// exportStatement renders the statement selected like GET /eerr (or the
// consolidated one with consolidated=true) as a downloadable document.
func (s *Server) exportStatement(c *gin.Context) {
	format, err := report.ParseFormat(c.Query("format"))
	if err != nil {
		failErr(c, &parsererror.ValidationError{Field: "format", Reason: err.Error()})
		return
	}
	req, err := statementRequest(c)
	if err != nil {
		failErr(c, err)
		return
	}

	var data *models.EERRData
	if c.Query("consolidated") == "true" {
		data, err = s.svc.Consolidated(c.Request.Context(), req)
	} else {
		data, err = s.svc.Statement(c.Request.Context(), req)
	}
	if err != nil {
		failErr(c, err)
		return
	}

	out, err := s.c.GetReportGenerator().Generate(data, format)
	if err != nil {
		failErr(c, err)
		return
	}
	name := "eerr"
	if req.Sucursal != "" {
		name += "_" + strings.ToLower(strings.ReplaceAll(req.Sucursal, " ", "_"))
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, name, format.Extension()))
	c.Data(http.StatusOK, format.ContentType(), out)
}

// ManualValueRequest is the body of PUT /manual-values.
type ManualValueRequest struct {
	Sucursal string          `json:"sucursal"`
	Period   string          `json:"period" binding:"required"`
	Cuenta   string          `json:"cuenta" binding:"required"`
	Monto    decimal.Decimal `json:"monto"`
	Delete   bool            `json:"delete,omitempty"`
}

func (s *Server) putManualValue(c *gin.Context) {
	var body ManualValueRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	p, err := models.ParsePeriod(body.Period)
	if err != nil {
		failErr(c, &parsererror.ValidationError{Field: "period", Reason: err.Error()})
		return
	}

	mv := repository.ManualValue{
		UserID:   userID(c),
		Sucursal: body.Sucursal,
		Period:   p,
		Cuenta:   body.Cuenta,
		Monto:    body.Monto,
	}
	if body.Delete {
		err = s.repo.DeleteManualValue(c.Request.Context(), mv)
	} else {
		err = s.repo.SetManualValue(c.Request.Context(), mv)
	}
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, mv)
}

// SumRequest is the body of POST /tables/sum: either flat tables or
// statements, not both.
type SumRequest struct {
	Tables     [][]models.Row     `json:"tables,omitempty"`
	Statements []*models.EERRData `json:"statements,omitempty"`
}

func (s *Server) sumTables(c *gin.Context) {
	var body SumRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	switch {
	case len(body.Statements) > 0 && len(body.Tables) > 0:
		fail(c, http.StatusBadRequest, "send tables or statements, not both")
	case len(body.Statements) > 0:
		ok(c, table.SumAllEERR(body.Statements...))
	case len(body.Tables) > 0:
		ok(c, table.SumAll(body.Tables...))
	default:
		fail(c, http.StatusBadRequest, "nothing to sum")
	}
}

func (s *Server) listBranches(c *gin.Context) {
	branches, err := s.repo.Branches(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	if branches == nil {
		branches = []string{}
	}
	ok(c, branches)
}

// classify explains the heading of ?account= (with optional ?manual=).
func (s *Server) classify(c *gin.Context) {
	account := c.Query("account")
	if strings.TrimSpace(account) == "" && strings.TrimSpace(c.Query("manual")) == "" {
		fail(c, http.StatusBadRequest, "account is required")
		return
	}
	ok(c, s.c.GetClassifier().Explain(account, c.Query("manual")))
}
