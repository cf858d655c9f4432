package offers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestShopByHost(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"www.ozon.ru", ShopOzon},
		{"ozon.ru", ShopOzon},
		{"OZON.RU.", ShopOzon},
		{"lavka.yandex.ru", ShopYandexLavka},
		{"market.yandex.ru", ShopYandexMarket},
		{"www.wildberries.ru", ShopWildberries},
		{"notozon.ru", ""},
		{"example.com", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.want, shopByHost(tt.host))
		})
	}
}

func TestFormatStoreName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"ozon", ShopOzon},
		{"OZON.ru", ShopOzon},
		{"Яндекс Лавка", ShopYandexLavka},
		{"яндекс маркет", ShopYandexMarket},
		{"чайный дом", "Чайный дом"},
		{"teaShop", "TeaShop"},
		{"Google Shopping", ""},
		{"  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, formatStoreName(tt.raw))
		})
	}
}

func TestShopByTitle(t *testing.T) {
	assert.Equal(t, ShopVkusVill, shopByTitle("Чай зеленый ВкусВилл 100 г"))
	assert.Equal(t, ShopLenta, shopByTitle("Lenta черный чай"))
	assert.Equal(t, "", shopByTitle("Polenta tea")) // "lenta" inside a word
	assert.Equal(t, "", shopByTitle("Сенча"))
}

func TestResolveShopName_Order(t *testing.T) {
	n := newTestNormalizer()
	tests := []struct {
		name  string
		raw   string
		link  string
		title string
		want  string
	}{
		{"store field", `{"store":"Мой чай"}`, "https://www.ozon.ru/p/1", "Лента", ShopMoyChay},
		{"aggregator store falls through", `{"source":"Google"}`, "https://www.ozon.ru/p/1", "", ShopOzon},
		{"host", `{}`, "https://www.ozon.ru/product/123", "Wildberries", ShopOzon},
		{"title", `{}`, "https://shop.example.org/1", "Wildberries чай", ShopWildberries},
		{"fallback", `{}`, "", "Сенча", "Интернет-магазин"},
		{"nested offer", `{"offers":[{"store_name":"citilink"}]}`, "", "", ShopCitilink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.resolveShopName(gjson.Parse(tt.raw), tt.link, tt.title))
		})
	}
}
