package web

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vladislavdragonenkov/wholesalebox/internal/cart"
)

type cartView struct {
	Lines []cart.Line `json:"lines"`
	Total float64     `json:"total"`
}

func (s *Server) handleCartView(w http.ResponseWriter, r *http.Request) {
	c := s.carts.For(sessionFrom(r).ID)
	writeJSON(w, http.StatusOK, cartView{Lines: c.Lines(), Total: c.Total()})
}

type cartAddRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// handleCartAdd кладёт товар в корзину. Товар разрешается по id через
// снимок каталога: клиент не может подсунуть произвольную цену.
func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var req cartAddRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	product, err := s.pager.Product(r.Context(), sess.Token, req.ProductID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	c := s.carts.For(sess.ID)
	c.Add(product, req.Quantity)
	writeJSON(w, http.StatusOK, cartView{Lines: c.Lines(), Total: c.Total()})
}

type cartAdjustRequest struct {
	Quantity int `json:"quantity"`
}

func (s *Server) handleCartAdjust(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	productID, _ := strconv.ParseInt(mux.Vars(r)["productId"], 10, 64)

	var req cartAdjustRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	c := s.carts.For(sess.ID)
	if err := c.Adjust(productID, req.Quantity); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView{Lines: c.Lines(), Total: c.Total()})
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	productID, _ := strconv.ParseInt(mux.Vars(r)["productId"], 10, 64)

	c := s.carts.For(sess.ID)
	if err := c.Remove(productID); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView{Lines: c.Lines(), Total: c.Total()})
}

// handleCheckout оформляет заказ из корзины. При отказе бэкенда корзина
// сохраняется, и покупатель может повторить попытку.
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	if err := s.carts.Submit(r.Context(), sess.ID, sess.Token); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Order placed successfully."})
}
