package offers

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNormalizer() *Normalizer {
	return New(DefaultConfig())
}

func TestNormalize_OolongExample(t *testing.T) {
	n := newTestNormalizer()
	raw := `{"items":[{"title":"Da Hong Pao Oolong 100g","price":"450,00 ₽","store":"ozon"}]}`

	assert.Equal(t, "oolong tea", n.BuildQuery("улун"))

	offers, err := n.Normalize([]byte(raw), "улун")
	require.NoError(t, err)
	require.Len(t, offers, 1)

	o := offers[0]
	assert.Equal(t, "OZON", o.ShopName)
	assert.Equal(t, 450.0, o.Price)
	assert.Equal(t, "100g", o.Weight)
	assert.True(t, o.InStock)
	assert.Equal(t, "Da Hong Pao Oolong 100g", o.ProductTitle)
	assert.Equal(t, Currency, o.Currency)
	assert.Nil(t, o.Rating)
	assert.Nil(t, o.ImageURL)
	assert.True(t, strings.HasPrefix(o.URL, "https://www.ozon.ru/search/?text="), o.URL)
}

func TestNormalize_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"zero price", `{"products":[{"name":"Green Tea","price":0}]}`, ErrNoPriceableRecords},
		{"empty object", `{}`, ErrNoPriceableRecords},
		{"empty array", `[]`, ErrNoCandidateRecords},
		{"scalar", `42`, ErrNoCandidateRecords},
		{"invalid json", `{"items":[`, ErrNoCandidateRecords},
		{"empty body", ``, ErrNoCandidateRecords},
		{"prices above ceiling", `{"items":[{"title":"Gold Tea","price":250000}]}`, ErrNoPriceableRecords},
		{"no digits", `{"items":[{"title":"Tea","price":"по запросу"}]}`, ErrNoPriceableRecords},
	}

	n := newTestNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offers, err := n.Normalize([]byte(tt.raw), "чай")
			assert.Nil(t, offers)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestNormalize_ErrorKindsAreDistinct(t *testing.T) {
	n := newTestNormalizer()

	_, errEmpty := n.Normalize([]byte(`[]`), "")
	_, errPrices := n.Normalize([]byte(`{"items":[{"title":"x"}]}`), "")

	assert.ErrorIs(t, errEmpty, ErrNoCandidateRecords)
	assert.NotErrorIs(t, errEmpty, ErrNoPriceableRecords)
	assert.ErrorIs(t, errPrices, ErrNoPriceableRecords)
	assert.NotErrorIs(t, errPrices, ErrNoCandidateRecords)
}

func TestNormalize_SortedAndPositive(t *testing.T) {
	raw := `{"data":{"products":[
		{"product_title":"Pu-erh 357 г","offer":{"price":"1 250 ₽","store_name":"Wildberries"}},
		{"product_title":"Sencha","price":0},
		{"product_title":"Jasmine Pearl 50 g","price":320.5},
		{"product_title":"Tie Guan Yin","typical_price_range":{"min_price":"₽899","max_price":"₽1,299"}},
		{"product_title":"Broken","price":"-"},
		{"product_title":"Assam","current_price":"320,50"}
	]}}`

	offers, err := newTestNormalizer().Normalize([]byte(raw), "пуэр")
	require.NoError(t, err)
	require.Len(t, offers, 4)

	for i := 1; i < len(offers); i++ {
		assert.LessOrEqual(t, offers[i-1].Price, offers[i].Price)
	}
	for _, o := range offers {
		assert.Greater(t, o.Price, 0.0)
	}

	// equal prices keep provider order
	assert.Equal(t, "Jasmine Pearl 50 g", offers[0].ProductTitle)
	assert.Equal(t, "Assam", offers[1].ProductTitle)
	assert.Equal(t, 899.0, offers[2].Price)
	assert.Equal(t, 1250.0, offers[3].Price)
	assert.Equal(t, "Wildberries", offers[3].ShopName)
	assert.Equal(t, "357 г", offers[3].Weight)
}

func TestNormalize_SupportedListPaths(t *testing.T) {
	record := `{"title":"Milk Oolong","price":500,"product_page_url":"https://www.wildberries.ru/catalog/1/detail.aspx"}`
	for _, path := range productListPaths {
		t.Run(path, func(t *testing.T) {
			raw := nest(path, "["+record+"]")

			offers, err := newTestNormalizer().Normalize([]byte(raw), "")
			require.NoError(t, err)
			require.Len(t, offers, 1)
			assert.Equal(t, "Wildberries", offers[0].ShopName)
			assert.Equal(t, "https://www.wildberries.ru/catalog/1/detail.aspx", offers[0].URL)
		})
	}
}

func TestNormalize_ShopFromURLHost(t *testing.T) {
	raw := `{"results":[{"title":"Black Tea","price":"199","url":"https://www.ozon.ru/product/123"}]}`

	offers, err := newTestNormalizer().Normalize([]byte(raw), "")
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "OZON", offers[0].ShopName)
	assert.Equal(t, "https://www.ozon.ru/product/123", offers[0].URL)
}

func TestNormalize_NeverReturnsAggregatorLinks(t *testing.T) {
	raw := `{"items":[
		{"title":"A","price":100,"product_page_url":"https://www.google.com/shopping/product/1?prds=x"},
		{"title":"B","price":200,"link":"https://www.google.com/url?q=https%3A%2F%2Fwww.ozon.ru%2Fproduct%2F77&sa=U"},
		{"title":"C","price":300,"url":"https://encrypted-tbn0.gstatic.com/images?q=tbn"}
	]}`

	offers, err := newTestNormalizer().Normalize([]byte(raw), "")
	require.NoError(t, err)
	require.Len(t, offers, 3)

	for _, o := range offers {
		assert.NotContains(t, o.URL, "google.")
		assert.NotContains(t, o.URL, "gstatic.")
	}
	assert.Equal(t, "https://www.ozon.ru/product/77", offers[1].URL)
	assert.Equal(t, "OZON", offers[1].ShopName)
	assert.True(t, strings.HasPrefix(offers[0].URL, "https://yandex.ru/search/?text="), offers[0].URL)
}

func TestNormalize_GenericFallbacks(t *testing.T) {
	raw := `{"items":[{"price":"350"}]}`

	offers, err := newTestNormalizer().Normalize([]byte(raw), "зеленый")
	require.NoError(t, err)
	require.Len(t, offers, 1)

	o := offers[0]
	assert.Equal(t, "Tea Product", o.ProductTitle)
	assert.Equal(t, "Интернет-магазин", o.ShopName)
	assert.Equal(t, "100 г", o.Weight)
	assert.Equal(t, "https://yandex.ru/search/?text=green+tea", o.URL)
}

func TestNormalize_EmptyFallbackTitleDropsRecord(t *testing.T) {
	conf := DefaultConfig()
	conf.FallbackTitle = ""

	_, err := New(conf).Normalize([]byte(`{"items":[{"price":350}]}`), "")
	assert.ErrorIs(t, err, ErrNoPriceableRecords)
}

func TestNormalize_OptionalFields(t *testing.T) {
	raw := `{"data":[{
		"product_title":"Lavender Earl Grey 75гр",
		"product_rating":4.6,
		"product_photos":["https://img.example.com/1.jpg","https://img.example.com/2.jpg"],
		"offer":{"price":"649 ₽","store_name":"Чайная лавка","offer_page_url":"https://tea-shop.example.ru/p/1","in_stock":false}
	}]}`

	offers, err := newTestNormalizer().Normalize([]byte(raw), "")
	require.NoError(t, err)
	require.Len(t, offers, 1)

	o := offers[0]
	require.NotNil(t, o.Rating)
	assert.Equal(t, 4.6, *o.Rating)
	require.NotNil(t, o.ImageURL)
	assert.Equal(t, "https://img.example.com/1.jpg", *o.ImageURL)
	assert.Equal(t, "Чайная лавка", o.ShopName)
	assert.Equal(t, "https://tea-shop.example.ru/p/1", o.URL)
	assert.Equal(t, "75гр", o.Weight)
	assert.False(t, o.InStock)
}

func TestNormalize_RootObjectIsSingleRecord(t *testing.T) {
	raw := `{"title":"Sencha","price":"420","seller":"ВкусВилл"}`

	offers, err := newTestNormalizer().Normalize([]byte(raw), "")
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "ВкусВилл", offers[0].ShopName)
	assert.True(t, strings.HasPrefix(offers[0].URL, "https://vkusvill.ru/search/?q="))
}

func TestNormalizeValue(t *testing.T) {
	value := map[string]any{
		"products": []any{
			map[string]any{"title": "Oolong", "price": 510.0, "store": "yandex market"},
		},
	}

	offers, err := newTestNormalizer().NormalizeValue(value, "")
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "Яндекс Маркет", offers[0].ShopName)

	_, err = newTestNormalizer().NormalizeValue(func() {}, "")
	assert.ErrorIs(t, err, ErrNoCandidateRecords)
}

// nest wraps value under a dotted path, "data.items" -> {"data":{"items":value}}
func nest(path, value string) string {
	keys := strings.Split(path, ".")
	out := value
	for i := len(keys) - 1; i >= 0; i-- {
		out = `{"` + keys[i] + `":` + out + `}`
	}
	return out
}
