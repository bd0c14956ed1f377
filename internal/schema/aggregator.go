package schema

// Aggregator joins the facts of every extractor by table name. Records keep the
// order in which their table was first seen.
type Aggregator struct {
	records *Collection[*TableRecord]
}

func NewAggregator() *Aggregator {
	return &Aggregator{records: NewCollection[*TableRecord]()}
}

// Record returns the record of a table, creating it when missing.
func (a *Aggregator) Record(table string) *TableRecord {
	if r, ok := a.records.Get(table); ok {
		return r
	}
	r := &TableRecord{Table: table}
	a.records.Put(table, r)
	return r
}

// AddSchema merges the columns of every table.
func (a *Aggregator) AddSchema(tables *Collection[*Table]) {
	for name, table := range tables.All() {
		r := a.Record(name)
		for key, field := range table.Columns.All() {
			r.SchemaFields.Put(key, field)
		}
	}
}

// AddForm merges the fields of one resource form.
func (a *Aggregator) AddForm(facts FormFacts) {
	r := a.Record(facts.Table)
	for key, field := range facts.Fields.All() {
		r.FormFields.Put(key, field)
	}
	if r.ResourceFile == "" {
		r.ResourceFile = facts.ResourceFile
	}
	r.FormFiles = append(r.FormFiles, facts.FormFiles...)
}

// AddModel merges the facts of one model class.
func (a *Aggregator) AddModel(facts ModelFacts) {
	r := a.Record(facts.Table)
	for key, field := range facts.Fields.All() {
		r.ModelFields.Put(key, field)
	}
	for key, field := range facts.DocFields.All() {
		r.DocFields.Put(key, field)
	}
	for key, field := range facts.DocReadFields.All() {
		r.DocReadFields.Put(key, field)
	}
	for key, rel := range facts.Relationships.All() {
		r.Relationships.Put(key, rel)
	}
	r.ModelClass = facts.Class
	r.ModelFile = facts.File
}

// Records returns every record in first-seen order.
func (a *Aggregator) Records() []*TableRecord {
	return a.records.Values()
}

// Collection exposes the records keyed by table, for serialization.
func (a *Aggregator) Collection() *Collection[*TableRecord] {
	return a.records
}
