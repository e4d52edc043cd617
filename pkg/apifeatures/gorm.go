package apifeatures

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplyGorm adds the parsed conditions, ordering, selection and window to tx.
// Column names come from the schema, never from the request.
func (f *APIFeatures) ApplyGorm(tx *gorm.DB) *gorm.DB {
	for _, cond := range f.conditions {
		column := clause.Column{Name: cond.Column}
		switch cond.Operator {
		case Gt:
			tx = tx.Where(clause.Gt{Column: column, Value: cond.Value})
		case Gte:
			tx = tx.Where(clause.Gte{Column: column, Value: cond.Value})
		case Lt:
			tx = tx.Where(clause.Lt{Column: column, Value: cond.Value})
		case Lte:
			tx = tx.Where(clause.Lte{Column: column, Value: cond.Value})
		default:
			tx = tx.Where(clause.Eq{Column: column, Value: cond.Value})
		}
	}

	for _, key := range f.sortKeys {
		if key.Column == "_id" {
			key.Column = "id"
		}
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: key.Column}, Desc: key.Descending})
	}

	if len(f.include) > 0 {
		tx = tx.Select(f.include)
	} else if len(f.exclude) > 0 {
		tx = tx.Omit(f.exclude...)
	}

	return tx.Offset(int(f.Skip())).Limit(int(f.limit))
}
