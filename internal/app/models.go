package app

import (
	"github.com/danny270793/myorm/runtime/model"
	"github.com/danny270793/myorm/runtime/types"
)

// User is a row of the users table.
type User struct {
	ID        *types.Column
	Name      *types.Column
	Email     *types.Column
	Active    *types.Column
	LastLogin *types.Column
}

// NewUser returns a blank user.
func NewUser() *User {
	return &User{
		ID:        types.NewColumn("id", types.Number),
		Name:      types.NewColumn("name", types.String),
		Email:     types.NewColumn("email", types.String),
		Active:    types.NewColumn("active", types.Boolean),
		LastLogin: types.NewColumn("lastLogin", types.Date),
	}
}

func (u *User) Identity() *types.Column { return u.ID }
func (u *User) TableName() string       { return "users" }

// Users is the descriptor of User.
var Users = model.MustRegister(NewUser,
	func(u *User) *types.Column { return u.Name },
	func(u *User) *types.Column { return u.Email },
	func(u *User) *types.Column { return u.Active },
	func(u *User) *types.Column { return u.LastLogin },
)

// Product is a row of the products table.
type Product struct {
	ID          *types.Column
	Name        *types.Column
	Description *types.Column
	Price       *types.Column
	InStock     *types.Column
	CreatedAt   *types.Column
}

// NewProduct returns a blank product.
func NewProduct() *Product {
	return &Product{
		ID:          types.NewColumn("id", types.Number),
		Name:        types.NewColumn("name", types.String),
		Description: types.NewColumn("description", types.String),
		Price:       types.NewColumn("price", types.Number),
		InStock:     types.NewColumn("inStock", types.Boolean),
		CreatedAt:   types.NewColumn("createdAt", types.Date),
	}
}

func (p *Product) Identity() *types.Column { return p.ID }
func (p *Product) TableName() string       { return "products" }

// Products is the descriptor of Product.
var Products = model.MustRegister(NewProduct,
	func(p *Product) *types.Column { return p.Name },
	func(p *Product) *types.Column { return p.Description },
	func(p *Product) *types.Column { return p.Price },
	func(p *Product) *types.Column { return p.InStock },
	func(p *Product) *types.Column { return p.CreatedAt },
)

// ModelInfo describes a registered model for display.
type ModelInfo struct {
	Name   string
	Table  string
	Fields []model.FieldInfo
}

// Models lists the bundled models.
func Models() []ModelInfo {
	return []ModelInfo{
		{Name: "User", Table: Users.Table(), Fields: Users.Fields()},
		{Name: "Product", Table: Products.Table(), Fields: Products.Fields()},
	}
}
