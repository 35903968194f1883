//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"mallfront/internal/handler/api"
	resdto "mallfront/internal/handler/dto/response"
	"mallfront/internal/session"
	"mallfront/internal/usecase/queries"
	"mallfront/tests/common/httptest"
	"mallfront/tests/common/testutil"
	commandsmock "mallfront/tests/mock/commands"
	queriesmock "mallfront/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CartHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockCartCommands
	mockQueries  *queriesmock.MockCartQueries
	handler      *api.CartHandler
}

func (s *CartHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockCartCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockCartQueries(s.mockCtrl)
	s.handler = api.NewCartHandler(s.mockCommands, s.mockQueries)

	withBuyer := func(h gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set("buyer_id", "buyer@example.com")
			h(c)
		}
	}
	s.router.GET("/cart", withBuyer(s.handler.GetCart))
	s.router.POST("/cart/lines", withBuyer(s.handler.ChangeLine))
}

func (s *CartHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCartHandlerSuite(t *testing.T) {
	suite.Run(t, new(CartHandlerTestSuite))
}

func (s *CartHandlerTestSuite) TestGetCart() {
	s.Run("success: returns lines with subtotal", func() {
		sale := int64(2500)
		s.mockQueries.EXPECT().GetCart(gomock.Any()).Return(&queries.CartView{
			Lines: []queries.CartLine{
				{ProductID: 101, ProductName: "item-a", Qty: 1, UnitPrice: 4500},
				{ProductID: 102, ProductName: "item-b", Qty: 2, UnitPrice: 3000, SalePrice: &sale},
			},
			Subtotal: 9500,
		}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/cart", nil)

		var response resdto.CartResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Lines, 2)
		s.Equal(int64(9500), response.Subtotal)
		s.Equal("item-a", response.Lines[0].ProductName)
		s.Require().NotNil(response.Lines[1].SalePrice)
		s.Equal(int64(2500), *response.Lines[1].SalePrice)
	})

	s.Run("error: expired session maps to 401", func() {
		s.mockQueries.EXPECT().GetCart(gomock.Any()).
			Return(nil, session.ErrAuthExpired).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/cart", nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Session expired")
	})
}

func (s *CartHandlerTestSuite) TestChangeLine() {
	url := "/cart/lines"
	reqBody := map[string]any{"productId": 101, "qty": 2}

	s.Run("success: returns 204", func() {
		s.mockCommands.EXPECT().SetLine(gomock.Any(), "buyer@example.com", int64(101), 2).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("success: qty 0 deletes the line", func() {
		s.mockCommands.EXPECT().SetLine(gomock.Any(), "buyer@example.com", int64(101), 0).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"productId": 101, "qty": 0})
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(map[string]any)
		}{
			{name: "missing productId", mutate: testutil.Field("productId", nil)},
			{name: "negative qty", mutate: testutil.Field("qty", -1)},
		}

		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})
}
