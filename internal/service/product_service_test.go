package service

import (
	"context"
	"encoding/json"
	"testing"

	"onionpay-api/internal/constant"
	"onionpay-api/internal/dao"
	"onionpay-api/internal/dto"
	"onionpay-api/internal/testutil"
)

func TestProductLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewProductService(dao.NewProductDao(testutil.NewDB(t)))

	p, err := s.Create(ctx, dto.CreateProductReq{Name: "Notebook", Price: json.RawMessage(`"₹1,299"`)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Price != 129900 || !p.IsActive {
		t.Fatalf("created = %+v", p)
	}

	paise := int64(5000)
	name := "Notebook A5"
	p, err = s.Update(ctx, p.ID, dto.UpdateProductReq{Name: &name, PriceInPaise: &paise})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.Name != name || p.Price != 5000 {
		t.Errorf("updated = %+v", p)
	}

	list, err := s.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("List = %v, %v", list, err)
	}

	if err := s.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if list, _ := s.List(ctx); len(list) != 0 {
		t.Errorf("deleted product still listed")
	}
	if _, err := s.Get(ctx, p.ID); !constant.IsCode(err, constant.CodeProductNotFound) {
		t.Errorf("Get deleted: %v", err)
	}
}

func TestProductValidation(t *testing.T) {
	ctx := context.Background()
	s := NewProductService(dao.NewProductDao(testutil.NewDB(t)))

	tests := []struct {
		name string
		req  dto.CreateProductReq
	}{
		{"missing price", dto.CreateProductReq{Name: "A"}},
		{"zero price", dto.CreateProductReq{Name: "A", Price: json.RawMessage(`0`)}},
		{"text price", dto.CreateProductReq{Name: "A", Price: json.RawMessage(`"free"`)}},
		{"blank name", dto.CreateProductReq{Name: "  ", Price: json.RawMessage(`10`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Create(ctx, tt.req); !constant.IsCode(err, constant.CodeProductInvalid) {
				t.Errorf("got %v", err)
			}
		})
	}

	if err := s.Delete(ctx, 777); !constant.IsCode(err, constant.CodeProductNotFound) {
		t.Errorf("Delete unknown: %v", err)
	}
	zero := int64(0)
	if _, err := s.Update(ctx, 777, dto.UpdateProductReq{PriceInPaise: &zero}); !constant.IsCode(err, constant.CodeProductInvalid) {
		t.Errorf("Update zero price: %v", err)
	}
}
