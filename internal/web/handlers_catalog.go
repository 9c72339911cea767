package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vladislavdragonenkov/wholesalebox/internal/catalog"
	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
	"github.com/vladislavdragonenkov/wholesalebox/internal/gateway"
)

// handleCatalog — синхронная выборка страницы каталога по query-параметрам
// term, page и pageSize.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	q := catalog.Query{
		Term:     r.URL.Query().Get("term"),
		Page:     intParam(r.URL.Query().Get("page"), 1),
		PageSize: intParam(r.URL.Query().Get("pageSize"), catalog.DefaultPageSize),
	}

	result, err := s.pager.Fetch(r.Context(), sess.Token, q)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type termRequest struct {
	Term string `json:"term"`
}

// handleCatalogTerm принимает очередное значение поискового поля.
// Ответ уходит сразу: загрузка стартует после паузы debounce, результат
// забирается через /catalog/view.
func (s *Server) handleCatalogTerm(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var req termRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	s.views.For(sess.ID, sess.Token).SetTerm(req.Term)
	w.WriteHeader(http.StatusAccepted)
}

type pageRequest struct {
	Page int `json:"page"`
}

// handleCatalogPage переключает страницу текущего вида и сразу
// возвращает обновлённый результат.
func (s *Server) handleCatalogPage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var req pageRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	box := s.views.For(sess.ID, sess.Token)
	if err := box.SetPage(r.Context(), req.Page); err != nil && !errors.Is(err, domain.ErrStaleResult) {
		s.writeError(w, err)
		return
	}
	view, _ := box.Snapshot()
	writeJSON(w, http.StatusOK, view)
}

// handleCatalogView возвращает последний применённый результат вида.
func (s *Server) handleCatalogView(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	box := s.views.For(sess.ID, sess.Token)
	view, err := box.Snapshot()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleAdminProducts отдаёт каталог целиком (админский inventory-вид).
func (s *Server) handleAdminProducts(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	products, err := s.gateway.AllProducts(r.Context(), sess.Token)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleProductCreate(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	draft, image, err := parseProductForm(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.gateway.CreateProduct(r.Context(), sess.Token, draft, image); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Product saved."})
}

func (s *Server) handleProductUpdate(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	productID, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	draft, image, err := parseProductForm(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.gateway.UpdateProduct(r.Context(), sess.Token, productID, draft, image); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product saved."})
}

func (s *Server) handleProductDelete(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	productID, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	if err := s.gateway.DeleteProduct(r.Context(), sess.Token, productID); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted."})
}

// parseProductForm читает multipart-форму товара админки.
// Картинка опциональна; вместо файла может прийти поле ImageUrl.
func parseProductForm(r *http.Request) (domain.ProductDraft, *gateway.ImageUpload, error) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		return domain.ProductDraft{}, nil, err
	}

	price, _ := strconv.ParseFloat(r.FormValue("Price"), 64)
	stock, _ := strconv.Atoi(r.FormValue("StockQuantity"))
	draft := domain.ProductDraft{
		ProductName:   r.FormValue("ProductName"),
		Description:   r.FormValue("Description"),
		Price:         price,
		StockQuantity: stock,
		Unit:          r.FormValue("Unit"),
		ImageURL:      r.FormValue("ImageUrl"),
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return draft, nil, nil
		}
		return domain.ProductDraft{}, nil, err
	}
	image := &gateway.ImageUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	}
	return draft, image, nil
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
