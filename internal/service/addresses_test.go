package service

import (
	"context"
	"errors"
	"testing"
)

func validAddressInput() AddressInput {
	return AddressInput{
		Alias:      "Casa",
		Street:     "Rua das Flores",
		Number:     "12",
		Floor:      "3 Esq",
		PostalCode: "4710-057",
		City:       "Braga",
	}
}

func TestAddressService_Create(t *testing.T) {
	svc := NewAddressService(newFakeStore(), testLogger())

	addr, err := svc.Create(context.Background(), "user-1", validAddressInput())
	if err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}
	if addr.ID == "" {
		t.Error("ожидается непустой ID адреса")
	}
	if addr.UserID != "user-1" {
		t.Errorf("UserID = %q, ожидался user-1", addr.UserID)
	}
	if addr.IsDefault {
		t.Error("адрес не должен быть default без явного флага")
	}
}

func TestAddressService_Create_Validation(t *testing.T) {
	svc := NewAddressService(newFakeStore(), testLogger())

	tests := []struct {
		name   string
		modify func(*AddressInput)
	}{
		{"пустая метка", func(in *AddressInput) { in.Alias = "  " }},
		{"пустая улица", func(in *AddressInput) { in.Street = "" }},
		{"пустой номер дома", func(in *AddressInput) { in.Number = "" }},
		{"пустой город", func(in *AddressInput) { in.City = "" }},
		{"индекс без дефиса", func(in *AddressInput) { in.PostalCode = "4710057" }},
		{"индекс неверной длины", func(in *AddressInput) { in.PostalCode = "471-0057" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validAddressInput()
			tt.modify(&in)
			if _, err := svc.Create(context.Background(), "user-1", in); !errors.Is(err, ErrValidation) {
				t.Errorf("ожидается ErrValidation, получено: %v", err)
			}
		})
	}
}

// Проверяет инвариант «не более одного адреса по умолчанию»:
// создание нового default-адреса снимает флаг с прежнего.
func TestAddressService_Create_DefaultSwap(t *testing.T) {
	store := newFakeStore()
	svc := NewAddressService(store, testLogger())
	ctx := context.Background()

	casa := validAddressInput()
	casa.IsDefault = true
	home, err := svc.Create(ctx, "user-1", casa)
	if err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}

	trabalho := validAddressInput()
	trabalho.Alias = "Trabalho"
	trabalho.Street = "Avenida Central"
	trabalho.IsDefault = true
	work, err := svc.Create(ctx, "user-1", trabalho)
	if err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}
	if !work.IsDefault {
		t.Error("новый адрес должен стать default")
	}

	got, err := svc.Get(ctx, "user-1", home.ID)
	if err != nil {
		t.Fatalf("Get ошибка: %v", err)
	}
	if got.IsDefault {
		t.Error("прежний default-адрес должен потерять флаг")
	}
}

// Default-адреса разных пользователей независимы.
func TestAddressService_Create_DefaultIsPerUser(t *testing.T) {
	store := newFakeStore()
	svc := NewAddressService(store, testLogger())
	ctx := context.Background()

	in := validAddressInput()
	in.IsDefault = true
	first, err := svc.Create(ctx, "user-1", in)
	if err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}
	if _, err := svc.Create(ctx, "user-2", in); err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}

	got, err := svc.Get(ctx, "user-1", first.ID)
	if err != nil {
		t.Fatalf("Get ошибка: %v", err)
	}
	if !got.IsDefault {
		t.Error("default чужого пользователя не должен влиять на user-1")
	}
}

func TestAddressService_Update_DefaultSwap(t *testing.T) {
	store := newFakeStore()
	svc := NewAddressService(store, testLogger())
	ctx := context.Background()

	casa := validAddressInput()
	casa.IsDefault = true
	home, err := svc.Create(ctx, "user-1", casa)
	if err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}

	trabalho := validAddressInput()
	trabalho.Alias = "Trabalho"
	work, err := svc.Create(ctx, "user-1", trabalho)
	if err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}

	// Перенос флага default на второй адрес через Update.
	trabalho.IsDefault = true
	updated, err := svc.Update(ctx, "user-1", work.ID, trabalho)
	if err != nil {
		t.Fatalf("Update ошибка: %v", err)
	}
	if !updated.IsDefault {
		t.Error("обновлённый адрес должен стать default")
	}

	got, err := svc.Get(ctx, "user-1", home.ID)
	if err != nil {
		t.Fatalf("Get ошибка: %v", err)
	}
	if got.IsDefault {
		t.Error("прежний default-адрес должен потерять флаг")
	}
}

// Чужой адрес неотличим от несуществующего.
func TestAddressService_OwnershipHidden(t *testing.T) {
	store := newFakeStore()
	svc := NewAddressService(store, testLogger())
	ctx := context.Background()

	addr, err := svc.Create(ctx, "user-1", validAddressInput())
	if err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}

	if _, err := svc.Get(ctx, "user-2", addr.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get чужого адреса: ожидается ErrNotFound, получено: %v", err)
	}
	if _, err := svc.Update(ctx, "user-2", addr.ID, validAddressInput()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update чужого адреса: ожидается ErrNotFound, получено: %v", err)
	}
	if err := svc.Delete(ctx, "user-2", addr.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete чужого адреса: ожидается ErrNotFound, получено: %v", err)
	}

	// Владелец по-прежнему видит адрес.
	if _, err := svc.Get(ctx, "user-1", addr.ID); err != nil {
		t.Errorf("Get владельцем: %v", err)
	}
}

// Удаление default-адреса не назначает новый default.
func TestAddressService_Delete_NoPromotion(t *testing.T) {
	store := newFakeStore()
	svc := NewAddressService(store, testLogger())
	ctx := context.Background()

	casa := validAddressInput()
	casa.IsDefault = true
	home, err := svc.Create(ctx, "user-1", casa)
	if err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}
	trabalho := validAddressInput()
	trabalho.Alias = "Trabalho"
	if _, err := svc.Create(ctx, "user-1", trabalho); err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}

	if err := svc.Delete(ctx, "user-1", home.ID); err != nil {
		t.Fatalf("Delete ошибка: %v", err)
	}

	list, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("List ошибка: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("осталось %d адресов, ожидался 1", len(list))
	}
	if list[0].IsDefault {
		t.Error("оставшийся адрес не должен автоматически стать default")
	}
}

func TestAddressService_List_OnlyOwn(t *testing.T) {
	store := newFakeStore()
	svc := NewAddressService(store, testLogger())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "user-1", validAddressInput()); err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}
	other := validAddressInput()
	other.Alias = "Trabalho"
	if _, err := svc.Create(ctx, "user-2", other); err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}

	list, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("List ошибка: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("List вернул %d адресов, ожидался 1", len(list))
	}
	if list[0].Alias != "Casa" {
		t.Errorf("Alias = %q, ожидался Casa", list[0].Alias)
	}
}
