package inventory

// Field describes one column of an inventory table.
type Field struct {
	Name     string
	Required bool
	Numeric  bool
}

// Schema is the expected shape of an inventory table.
type Schema struct {
	Fields []Field
}

// InventorySchema is the schema every ingested inventory table is checked against.
func InventorySchema() Schema {
	return Schema{Fields: []Field{
		{Name: ColItem, Required: true},
		{Name: ColStockLevel, Required: true, Numeric: true},
		{Name: ColCategory},
		{Name: ColPurchasePrice, Numeric: true},
		{Name: ColSellingPrice, Numeric: true},
		{Name: ColLeadTime, Numeric: true},
		{Name: ColReorderPoint, Numeric: true},
	}}
}

// Validate checks that required columns exist and that every numeric column
// present holds only numbers or blanks. The first problem found is returned.
func (s Schema) Validate(t *Table) error {
	for _, f := range s.Fields {
		if !t.HasColumn(f.Name) {
			if f.Required {
				return &MissingColumnError{Column: f.Name}
			}
			continue
		}
		if f.Numeric {
			if _, err := t.floatColumn(f.Name); err != nil {
				return err
			}
		}
	}
	return nil
}
