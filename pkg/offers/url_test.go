package offers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestIsDenylistedHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"www.google.com", true},
		{"google.ru", true},
		{"shopping.google.co.uk", true},
		{"encrypted-tbn0.gstatic.com", true},
		{"lh3.googleusercontent.com", true},
		{"www.ozon.ru", false},
		{"googlemarket.ru", false},
		{"localhost", false},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.want, isDenylistedHost(tt.host))
		})
	}
}

func TestRecoverRedirectTarget(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			"query param",
			"https://www.google.com/url?sa=t&url=https%3A%2F%2Fwww.wildberries.ru%2Fcatalog%2F5%2Fdetail.aspx",
			"https://www.wildberries.ru/catalog/5/detail.aspx",
		},
		{
			"adurl",
			"https://www.googleadservices.com/pagead/aclk?adurl=https://moychay.ru/catalog/ulun",
			"https://moychay.ru/catalog/ulun",
		},
		{
			"double encoded",
			"https://www.google.com/url?q=https%253A%252F%252Fozon.ru%252Fproduct%252F9",
			"https://ozon.ru/product/9",
		},
		{
			"raw url substring in fragment",
			"https://www.google.com/aclk#url=https%3A%2F%2Fvkusvill.ru%2Fgoods%2F1.html",
			"https://vkusvill.ru/goods/1.html",
		},
		{
			"only aggregator targets",
			"https://www.google.com/url?q=https%3A%2F%2Fwww.google.ru%2Fsearch",
			"",
		},
		{"nothing embedded", "https://www.google.com/shopping/product/1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recoverRedirectTarget(tt.raw))
		})
	}
}

func TestResolveDirectURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"top level", `{"product_url":"https://www.ozon.ru/p/1"}`, "https://www.ozon.ru/p/1"},
		{"relative skipped", `{"link":"/p/1","url":"https://lenta.com/p/2"}`, "https://lenta.com/p/2"},
		{"non http skipped", `{"link":"javascript:void(0)"}`, ""},
		{
			"nested list",
			`{"link":"https://www.google.com/shopping/product/1","offers":[{"url":"https://www.dns-shop.ru/p/3"}]}`,
			"https://www.dns-shop.ru/p/3",
		},
		{
			"redirect recovered",
			`{"link":"https://www.google.com/url?q=https%3A%2F%2Fmegamarket.ru%2Fcatalog%2F4"}`,
			"https://megamarket.ru/catalog/4",
		},
		{"denylisted only", `{"url":"https://www.google.com/shopping/product/1"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveDirectURL(gjson.Parse(tt.raw)))
		})
	}
}

func TestSearchURL(t *testing.T) {
	assert.Equal(t, "https://www.ozon.ru/search/?text=milk+oolong&from_global=true", searchURL(ShopOzon, "milk oolong"))
	assert.Equal(t, "https://yandex.ru/search/?text=%D1%87%D0%B0%D0%B9", searchURL("Чайный дом", "чай"))
}
