package tests

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type MarketplaceTestSuite struct {
	APISuite
}

func TestMarketplaceTestSuite(t *testing.T) {
	suite.Run(t, new(MarketplaceTestSuite))
}

type productBody struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Price           string    `json:"price"`
	SellerID        uuid.UUID `json:"sellerId"`
	Status          string    `json:"status"`
	ApprovalStatus  string    `json:"approvalStatus"`
	RejectionReason *string   `json:"rejectionReason"`
}

type transactionBody struct {
	ID          uuid.UUID  `json:"id"`
	ProductID   uuid.UUID  `json:"productId"`
	BuyerID     uuid.UUID  `json:"buyerId"`
	SellerID    uuid.UUID  `json:"sellerId"`
	Amount      string     `json:"amount"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (suite *MarketplaceTestSuite) createProduct(token, price string) productBody {
	w := suite.do(http.MethodPost, "/api/products", token, map[string]interface{}{
		"title":       "Conta Diamante",
		"description": "Conta ranqueada com skins raras",
		"price":       price,
		"categoryId":  suite.category.ID,
		"game":        "Valorant",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var out productBody
	suite.decode(w, &out)
	return out
}

func (suite *MarketplaceTestSuite) TestPurchaseScenario() {
	seller := suite.register("Ana", "ana@example.com")
	buyer := suite.register("Bruno", "bruno@example.com")
	admin := suite.admin()

	product := suite.createProduct(seller.Token, "100.00")
	suite.Equal("pending", product.ApprovalStatus)
	suite.Equal("active", product.Status)
	suite.Equal(seller.ID, product.SellerID)

	// Anonymous browsing only shows approved products.
	w := suite.do(http.MethodGet, "/api/products", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.JSONEq("[]", w.Body.String())
	suite.Equal("0", w.Header().Get("X-Total-Count"))

	w = suite.do(http.MethodGet, "/api/products/"+product.ID.String(), buyer.Token, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	// The seller can see their own pending listing.
	w = suite.do(http.MethodGet, "/api/products?sellerId="+seller.ID.String(), seller.Token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var own []productBody
	suite.decode(w, &own)
	suite.Len(own, 1)

	w = suite.do(http.MethodPatch, "/api/products/"+product.ID.String()+"/approval", seller.Token, map[string]string{
		"approvalStatus": "approved",
	})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodPatch, "/api/products/"+product.ID.String()+"/approval", admin.Token, map[string]string{
		"approvalStatus": "approved",
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodGet, "/api/products", "", nil)
	var listed []productBody
	suite.decode(w, &listed)
	suite.Require().Len(listed, 1)
	suite.Equal("1", w.Header().Get("X-Total-Count"))

	w = suite.do(http.MethodPost, "/api/transactions", seller.Token, map[string]string{"productId": product.ID.String()})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("You cannot buy your own product", suite.errorMessage(w))

	w = suite.do(http.MethodPost, "/api/transactions", buyer.Token, map[string]string{"productId": product.ID.String()})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var txn transactionBody
	suite.decode(w, &txn)
	suite.Equal("100.00", txn.Amount)
	suite.Equal("pending", txn.Status)
	suite.Equal(seller.ID, txn.SellerID)
	suite.Equal(buyer.ID, txn.BuyerID)
	suite.Nil(txn.CompletedAt)

	w = suite.do(http.MethodGet, "/api/products/"+product.ID.String(), "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var sold productBody
	suite.decode(w, &sold)
	suite.Equal("sold", sold.Status)

	// A second buyer loses.
	other := suite.register("Carla", "carla@example.com")
	w = suite.do(http.MethodPost, "/api/transactions", other.Token, map[string]string{"productId": product.ID.String()})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Product not available", suite.errorMessage(w))

	w = suite.do(http.MethodPatch, "/api/transactions/"+txn.ID.String()+"/status", other.Token, map[string]string{"status": "completed"})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodPatch, "/api/transactions/"+txn.ID.String()+"/status", buyer.Token, map[string]string{"status": "completed"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var completed transactionBody
	suite.decode(w, &completed)
	suite.Equal("completed", completed.Status)
	suite.NotNil(completed.CompletedAt)

	w = suite.do(http.MethodPatch, "/api/transactions/"+txn.ID.String()+"/status", seller.Token, map[string]string{"status": "cancelled"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/transactions", buyer.Token, nil)
	var mine []transactionBody
	suite.decode(w, &mine)
	suite.Len(mine, 1)

	w = suite.do(http.MethodGet, "/api/transactions", other.Token, nil)
	var none []transactionBody
	suite.decode(w, &none)
	suite.Empty(none)

	w = suite.do(http.MethodGet, "/api/transactions/"+txn.ID.String(), seller.Token, nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *MarketplaceTestSuite) TestProductValidationAndStatus() {
	seller := suite.register("Ana", "ana@example.com")

	w := suite.do(http.MethodPost, "/api/products", "", map[string]interface{}{"title": "x"})
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.do(http.MethodPost, "/api/products", seller.Token, map[string]interface{}{
		"title": "Conta", "description": "d", "price": "0", "categoryId": suite.category.ID, "game": "g",
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	product := suite.createProduct(seller.Token, "49.90")
	suite.Equal("49.90", product.Price)

	w = suite.do(http.MethodPatch, "/api/products/"+product.ID.String()+"/status", seller.Token, map[string]string{"status": "sold"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPatch, "/api/products/"+product.ID.String()+"/status", seller.Token, map[string]string{"status": "inactive"})
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodPatch, "/api/products/not-a-uuid/status", seller.Token, map[string]string{"status": "inactive"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Invalid identifier", suite.errorMessage(w))

	w = suite.do(http.MethodGet, "/api/users/"+seller.ID.String(), "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"isSeller":true`)
	suite.NotContains(w.Body.String(), "email")
}

func (suite *MarketplaceTestSuite) TestRejectionKeepsReason() {
	seller := suite.register("Ana", "ana@example.com")
	admin := suite.admin()
	product := suite.createProduct(seller.Token, "10.00")

	w := suite.do(http.MethodPatch, "/api/products/"+product.ID.String()+"/approval", admin.Token, map[string]string{
		"approvalStatus": "rejected", "rejectionReason": "Imagem inadequada",
	})
	suite.Require().Equal(http.StatusOK, w.Code)
	var rejected productBody
	suite.decode(w, &rejected)
	suite.Equal("rejected", rejected.ApprovalStatus)
	suite.Require().NotNil(rejected.RejectionReason)
	suite.Equal("Imagem inadequada", *rejected.RejectionReason)

	w = suite.do(http.MethodPatch, "/api/products/"+product.ID.String()+"/approval", admin.Token, map[string]string{
		"approvalStatus": "approved",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *MarketplaceTestSuite) TestReportsAndSupport() {
	user := suite.register("Ana", "ana@example.com")
	target := suite.register("Bruno", "bruno@example.com")
	admin := suite.admin()

	w := suite.do(http.MethodPost, "/api/reports", user.Token, map[string]string{
		"reportedUserId": target.ID.String(), "reason": "Fraude", "description": "Nao entregou a conta",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var report struct {
		ID     uuid.UUID `json:"id"`
		Status string    `json:"status"`
	}
	suite.decode(w, &report)
	suite.Equal("pending", report.Status)

	w = suite.do(http.MethodGet, "/api/reports", user.Token, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodPatch, "/api/reports/"+report.ID.String()+"/status", admin.Token, map[string]string{"status": "reviewed"})
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodPost, "/api/support", user.Token, map[string]string{
		"subject": "Conta bloqueada", "message": "Nao consigo entrar",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var ticket struct {
		ID       uuid.UUID `json:"id"`
		Status   string    `json:"status"`
		Priority string    `json:"priority"`
	}
	suite.decode(w, &ticket)
	suite.Equal("open", ticket.Status)
	suite.Equal("medium", ticket.Priority)

	w = suite.do(http.MethodGet, "/api/support/my-tickets", user.Token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("1", w.Header().Get("X-Total-Count"))

	w = suite.do(http.MethodGet, "/api/support/"+ticket.ID.String()+"/messages", target.Token, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodPost, "/api/support/"+ticket.ID.String()+"/messages", admin.Token, map[string]string{"message": "Verificando"})
	suite.Equal(http.StatusCreated, w.Code)

	w = suite.do(http.MethodGet, "/api/support/"+ticket.ID.String()+"/messages", user.Token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var messages []struct {
		Message string `json:"message"`
	}
	suite.decode(w, &messages)
	suite.Require().Len(messages, 2)
	suite.Equal("Nao consigo entrar", messages[0].Message)

	w = suite.do(http.MethodPatch, "/api/support/"+ticket.ID.String()+"/status", admin.Token, map[string]string{"status": "closed"})
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodPost, "/api/support/"+ticket.ID.String()+"/messages", user.Token, map[string]string{"message": "Ola?"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Ticket is closed", suite.errorMessage(w))

	w = suite.do(http.MethodGet, "/api/admin/support/all", admin.Token, nil)
	suite.Equal(http.StatusOK, w.Code)
	w = suite.do(http.MethodGet, "/api/support", admin.Token, nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *MarketplaceTestSuite) TestAdminEndpoints() {
	user := suite.register("Ana", "ana@example.com")
	admin := suite.admin()
	suite.createProduct(user.Token, "100.00")

	for _, path := range []string{"/api/admin/users", "/api/admin/statistics", "/api/admin/activity"} {
		w := suite.do(http.MethodGet, path, user.Token, nil)
		suite.Equal(http.StatusForbidden, w.Code, path)
	}

	w := suite.do(http.MethodGet, "/api/admin/statistics", admin.Token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var stats map[string]int64
	suite.decode(w, &stats)
	suite.EqualValues(2, stats["totalUsers"])
	suite.EqualValues(1, stats["totalProducts"])
	suite.EqualValues(1, stats["totalSellers"])
	suite.EqualValues(1, stats["pendingApprovals"])

	w = suite.do(http.MethodGet, "/api/admin/activity?limit=2", admin.Token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var activity []struct {
		Action string `json:"action"`
	}
	suite.decode(w, &activity)
	suite.Len(activity, 2)

	w = suite.do(http.MethodGet, "/api/admin/activity?action=product.created", admin.Token, nil)
	suite.decode(w, &activity)
	suite.Require().Len(activity, 1)
	suite.Equal("product.created", activity[0].Action)

	w = suite.do(http.MethodGet, "/api/admin/users?page=1&limit=1", admin.Token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("2", w.Header().Get("X-Total-Count"))
	suite.Equal("2", w.Header().Get("X-Total-Pages"))

	w = suite.do(http.MethodPost, "/api/categories", admin.Token, map[string]string{"name": "Moedas", "icon": "Coins"})
	suite.Equal(http.StatusCreated, w.Code)
	w = suite.do(http.MethodPost, "/api/categories", user.Token, map[string]string{"name": "Gemas", "icon": "Gem"})
	suite.Equal(http.StatusForbidden, w.Code)
	w = suite.do(http.MethodGet, "/api/categories", "", nil)
	suite.Contains(w.Body.String(), "Moedas")
}

func (suite *MarketplaceTestSuite) TestImageUpload() {
	user := suite.register("Ana", "ana@example.com")
	png := []byte{
		0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
		0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x02, 0x00, 0x00, 0x00, 0x90, 0x77, 0x53, 0xDE,
	}

	upload := func(field string, data []byte) *http.Request {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile(field, "sword.png")
		suite.Require().NoError(err)
		_, err = part.Write(data)
		suite.Require().NoError(err)
		suite.Require().NoError(mw.Close())

		req, _ := http.NewRequest(http.MethodPost, "/api/uploads/images", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+user.Token)
		req.Header.Set("Accept-Language", "en")
		return req
	}

	w := suite.serve(upload("image", png))
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var result struct {
		URL string `json:"url"`
	}
	suite.decode(w, &result)
	suite.True(strings.HasPrefix(result.URL, "/uploads/products/"))

	req, _ := http.NewRequest(http.MethodGet, result.URL, nil)
	w = suite.serve(req)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.serve(upload("image", []byte("definitely not an image")))
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.serve(upload("file", png))
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("No file was uploaded", suite.errorMessage(w))
}

func (suite *MarketplaceTestSuite) TestHealthAndMetrics() {
	w := suite.do(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"database":"up"`)

	suite.do(http.MethodGet, "/api/categories", "", nil)
	w = suite.do(http.MethodGet, "/metrics", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "sword_shop_http_requests_total")
}
