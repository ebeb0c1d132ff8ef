package rules

// defaultRules covers the component categories that show up on typical
// structural and architectural sheets, with both Chinese and English
// annotation conventions. Codes follow the common Chinese drawing shorthand
// (KZ frame column, KL frame beam, LB slab, Q wall, JC footing).
func defaultRules() []*Rule {
	return []*Rule{
		{
			Name:           "concrete-column",
			Category:       "concrete_column",
			Pattern:        `混凝土柱|砼柱|框架柱|(?:^|[^a-z])column`,
			BaseConfidence: 0.80,
			UnitPriceKey:   "concrete_column_c30",
			Measure:        MeasureVolume,
		},
		{
			Name:           "concrete-beam",
			Category:       "concrete_beam",
			Pattern:        `梁|\bKL-?\d|\bLL-?\d|(?:^|[^a-z])beam`,
			BaseConfidence: 0.78,
			UnitPriceKey:   "concrete_beam_c30",
			Measure:        MeasureVolume,
		},
		{
			Name:           "floor-slab",
			Category:       "floor_slab",
			Pattern:        `楼板|板厚|\bLB-?\d|(?:^|[^a-z])slab`,
			BaseConfidence: 0.75,
			UnitPriceKey:   "floor_slab_c30",
			Measure:        MeasureArea,
		},
		{
			Name:           "shear-wall",
			Category:       "shear_wall",
			Pattern:        `剪力墙|砼墙|混凝土墙|(?:^|[^a-z])shear\s*wall`,
			BaseConfidence: 0.75,
			UnitPriceKey:   "shear_wall_c30",
			Measure:        MeasureArea,
		},
		{
			Name:           "masonry-wall",
			Category:       "masonry_wall",
			Pattern:        `砌体墙|砖墙|填充墙|(?:^|[^a-z])masonry`,
			BaseConfidence: 0.70,
			UnitPriceKey:   "masonry_wall",
			Measure:        MeasureArea,
		},
		{
			Name:           "foundation",
			Category:       "foundation",
			Pattern:        `基础|承台|独立基础|\bJC-?\d|(?:^|[^a-z])footing|foundation`,
			BaseConfidence: 0.75,
			UnitPriceKey:   "foundation_c30",
			Measure:        MeasureVolume,
		},
		{
			Name:           "rebar",
			Category:       "rebar",
			Pattern:        `钢筋|\bHRB\d{3}|\bHPB\d{3}|(?:^|[^a-z])rebar|reinforc`,
			BaseConfidence: 0.72,
			UnitPriceKey:   "rebar_hrb400",
			Measure:        MeasureCount,
		},
		{
			Name:           "steel-member",
			Category:       "steel_member",
			Pattern:        `钢柱|钢梁|型钢|\bQ(?:235|355|345)\b|(?:^|[^a-z])steel\s*(?:beam|column)`,
			BaseConfidence: 0.72,
			UnitPriceKey:   "steel_q355",
			Measure:        MeasureCount,
		},
		{
			Name:           "door",
			Category:       "door",
			Pattern:        `门|防火门|\bFM-?\d|\bM-?\d{3,4}\b|(?:^|[^a-z])door`,
			BaseConfidence: 0.70,
			UnitPriceKey:   "door_standard",
			Measure:        MeasureCount,
			QuantityPattern: `(?:共|x|×)\s*(\d+)\s*樘?|(\d+)\s*樘`,
		},
		{
			Name:           "window",
			Category:       "window",
			Pattern:        `窗|飘窗|\bC-?\d{3,4}\b|(?:^|[^a-z])window`,
			BaseConfidence: 0.70,
			UnitPriceKey:   "window_standard",
			Measure:        MeasureCount,
			QuantityPattern: `(?:共|x|×)\s*(\d+)\s*樘?|(\d+)\s*樘`,
		},
		{
			Name:           "pile",
			Category:       "pile",
			Pattern:        `桩|灌注桩|预制桩|(?:^|[^a-z])pile`,
			BaseConfidence: 0.73,
			UnitPriceKey:   "bored_pile_c30",
			Measure:        MeasureCount,
		},
	}
}

// DefaultCatalog returns the built-in rule catalog
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultRules())
	if err != nil {
		// Built-in patterns are fixed at compile time; a failure here is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return c
}
