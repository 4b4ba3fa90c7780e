// Package models содержит доменные структуры каталога: продукты, компоненты
// и связи компонент-продукт с количеством. Каталожные сущности разделяемые,
// подписки ссылаются на них, но не владеют ими.
package models

// Product каталожная запись продукта, на который оформляется подписка.
type Product struct {
	ID           int64   // Уникальный идентификатор продукта
	Name         string  // Название продукта
	Description  *string // Описание
	MonthlyPrice float64 // Цена за месяц
	IsActive     bool    // Доступен ли продукт для оформления подписки
}

// Component каталожная позиция, из которых собираются продукты.
type Component struct {
	ID            int64   // Уникальный идентификатор компонента
	Name          string  // Название компонента
	ComponentType string  // Тип компонента
	UnitCost      float64 // Стоимость за единицу
	Description   *string // Описание
}

// ProductComponent связь многие-ко-многим между продуктом и компонентом
// с количеством компонента в составе продукта. Пара (ProductID, ComponentID)
// уникальна.
type ProductComponent struct {
	ProductID     int64  // Идентификатор продукта
	ComponentID   int64  // Идентификатор компонента
	Quantity      int    // Количество компонента в продукте
	ProductName   string // Название продукта (заполняется при чтении списком)
	ComponentName string // Название компонента (заполняется при чтении списком)
}

// ComponentPatch частичное обновление компонента.
type ComponentPatch struct {
	Name          *string
	ComponentType *string
	UnitCost      *float64
	Description   *string
}

// ProductPatch частичное обновление продукта.
type ProductPatch struct {
	Name         *string
	Description  *string
	MonthlyPrice *float64
	IsActive     *bool
}

// ProductOption краткая запись продукта для выпадающего списка.
type ProductOption struct {
	ID   int64  `json:"id_product"`
	Name string `json:"name"`
}
