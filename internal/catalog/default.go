package catalog

import "github.com/kiso-design/intake-cli/internal/model"

// defaultFields is the built-in pattern table for tank-foundation intake
// projects. Keywords are matched case-insensitively against width-folded
// text; patterns run in declaration order and the first match wins.
var defaultFields = []FieldSpec{
	{
		Key:      "projectName",
		Label:    "プロジェクト名",
		Category: model.CategorySite,
		Keywords: []string{"プロジェクト名", "案件名", "工事名", "計画名", "プロジェクト"},
		Patterns: []string{
			`(?:プロジェクト名|案件名|工事名|計画名)[：:]\s*(.+?)(?:\n|$)`,
			`「(.+?)」(?:プロジェクト|計画|工事)`,
		},
		Question: "プロジェクト名を教えてください。",
	},
	{
		Key:      "siteName",
		Label:    "敷地名称",
		Category: model.CategorySite,
		Keywords: []string{"敷地名称", "施設名", "建物名"},
		Patterns: []string{
			`(?:敷地名称|施設名|建物名)[：:]\s*(.+?)(?:\n|$)`,
		},
	},
	{
		Key:      "siteAddress",
		Label:    "敷地住所",
		Category: model.CategorySite,
		Keywords: []string{"住所", "所在地", "建設地", "敷地"},
		Patterns: []string{
			`(?:住所|所在地|建設地)[：:]\s*(.+?)(?:\n|$)`,
			`(?:〒\d{3}-?\d{4}\s*)?((?:東京都|北海道|(?:京都|大阪)府|(?:神奈川|埼玉|千葉|愛知|兵庫|福岡)県).+?(?:市|区|町|村).+?)(?:\n|$)`,
		},
		Question: "プロジェクトの敷地住所を教えてください。",
	},
	{
		Key:       "siteArea",
		Label:     "敷地面積",
		Category:  model.CategorySite,
		Keywords:  []string{"敷地面積", "敷地", "土地面積"},
		Normalize: NormalizeArea,
		Patterns: []string{
			`敷地面積[：:]\s*([\d,]+\.?\d*)\s*(?:㎡|m2|平米)`,
			`敷地[：:]\s*([\d,]+\.?\d*)\s*(?:㎡|m2|平米)`,
		},
		Question: "敷地面積は何㎡ですか？",
	},
	{
		Key:      "landUse",
		Label:    "用途地域",
		Category: model.CategoryRegulation,
		Keywords: []string{"用途地域", "都市計画"},
		Patterns: []string{
			`用途地域[：:]\s*(.+?)(?:\n|$)`,
			`(第[一二三]種(?:低層|中高層)?住居(?:専用)?地域|(?:近隣)?商業地域|準?工業地域|工業専用地域)`,
		},
	},
	{
		Key:       "buildingCoverageRatio",
		Label:     "建ぺい率",
		Category:  model.CategoryRegulation,
		Keywords:  []string{"建ぺい率", "建蔽率"},
		Normalize: NormalizeRatio,
		Patterns: []string{
			`建[ぺ蔽]い?率[：:]\s*(\d+)\s*[%％]`,
			`建[ぺ蔽]い?率[：:]\s*(\d+/\d+)`,
		},
	},
	{
		Key:       "floorAreaRatio",
		Label:     "容積率",
		Category:  model.CategoryRegulation,
		Keywords:  []string{"容積率"},
		Normalize: NormalizeRatio,
		Patterns: []string{
			`容積率[：:]\s*(\d+)\s*[%％]`,
			`容積率[：:]\s*(\d+/\d+)`,
		},
	},
	{
		Key:      "buildingUse",
		Label:    "建物用途",
		Category: model.CategoryProgram,
		Keywords: []string{"建物用途", "用途", "施設用途", "建築用途"},
		Patterns: []string{
			`(?:建物|施設|建築)?用途[：:]\s*(.+?)(?:\n|$)`,
			`(?:事務所|店舗|工場|倉庫|住宅|ホテル|病院|学校)(?:ビル|建築|建物)?`,
		},
		Question: "建物の用途は何ですか？（例：事務所、工場、倉庫）",
	},
	{
		Key:       "totalFloorArea",
		Label:     "延床面積",
		Category:  model.CategoryProgram,
		Keywords:  []string{"延床面積", "延べ床面積", "総床面積", "建築面積"},
		Normalize: NormalizeArea,
		Patterns: []string{
			`(?:延べ?床|総床|建築)面積[：:]\s*([\d,]+\.?\d*)\s*(?:㎡|m2|平米)`,
			`(?:延べ?床|総床)[：:]\s*([\d,]+\.?\d*)\s*(?:㎡|m2|平米)`,
		},
		Question: "延床面積は何㎡ですか？",
	},
	{
		Key:       "numberOfFloors",
		Label:     "階数",
		Category:  model.CategoryProgram,
		Keywords:  []string{"階数", "階建", "地上", "地下"},
		Normalize: NormalizeFloors,
		Patterns: []string{
			`地上\d+階(?:.*?地下\d+階)?`,
			`\d+階建`,
			`\d+[Ff]`,
		},
		Question: "建物は何階建てですか？",
	},
	{
		Key:      "structureType",
		Label:    "構造種別",
		Category: model.CategoryProgram,
		Keywords: []string{"構造", "構造種別", "S造", "RC造", "SRC造", "木造"},
		Patterns: []string{
			`構造[：:]\s*(S造|RC造|SRC造|木造|鉄骨造|鉄筋コンクリート造|鉄骨鉄筋コンクリート造)`,
			`(S造|RC造|SRC造|木造|鉄骨造|鉄筋コンクリート造|鉄骨鉄筋コンクリート造)(?:を?希望|で?検討|を?想定)`,
		},
	},
	{
		Key:      "groundInfo",
		Label:    "地盤情報",
		Category: model.CategorySite,
		Keywords: []string{"地盤", "N値", "支持層", "液状化"},
		Patterns: []string{
			`(?:地盤|支持層)[：:]\s*(.+?)(?:\n|$)`,
			`N値[：:]\s*(\d+)`,
			`(液状化(?:の)?(?:可能性|リスク|懸念)(?:が)?(?:ある|高い|低い))`,
		},
	},
	{
		Key:       "tankCapacity",
		Label:     "タンク容量",
		Category:  model.CategoryTank,
		Keywords:  []string{"タンク容量", "貯蔵量", "容量", "kl", "キロリットル"},
		Normalize: NormalizeNumber,
		Patterns: []string{
			`(?:タンク)?容量[：:]\s*([\d,]+)\s*(?:kL|キロリットル)`,
			`(\d+)\s*kL(?:タンク|型)`,
		},
		Question: "タンクの容量は何kLですか？",
	},
	{
		Key:      "tankContent",
		Label:    "内容物",
		Category: model.CategoryTank,
		Keywords: []string{"内容物", "貯蔵物", "危険物", "油種"},
		Patterns: []string{
			`(?:内容物|貯蔵物)[：:]\s*(.+?)(?:\n|$)`,
			`(ガソリン|軽油|重油|灯油|原油|アルコール|化学薬品)`,
		},
		Question: "タンクの内容物は何ですか？",
	},
	{
		Key:       "tankDiameter",
		Label:     "タンク直径",
		Category:  model.CategoryTank,
		Keywords:  []string{"タンク直径", "直径", "内径"},
		Normalize: NormalizeNumber,
		Patterns: []string{
			`(?:タンク)?直径[：:]\s*([\d,]+\.?\d*)\s*(?:m|メートル)`,
			`内径[：:]\s*([\d,]+\.?\d*)\s*(?:m|メートル)`,
		},
		Question: "タンクの直径は何メートルですか？",
	},
	{
		Key:       "tankHeight",
		Label:     "タンク高さ",
		Category:  model.CategoryTank,
		Keywords:  []string{"タンク高さ", "高さ", "タンク高"},
		Normalize: NormalizeNumber,
		Patterns: []string{
			`(?:タンク)?高さ[：:]\s*([\d,]+\.?\d*)\s*(?:m|メートル)`,
			`タンク高[：:]\s*([\d,]+\.?\d*)\s*(?:m|メートル)`,
		},
	},
	{
		Key:      "seismicLevel",
		Label:    "耐震レベル",
		Category: model.CategoryTank,
		Keywords: []string{"耐震", "耐震レベル", "レベル2", "レベル1"},
		Patterns: []string{
			`耐震(?:レベル|性能)?[：:]\s*(L[12]|レベル[12])`,
			`(L[12])地震動`,
		},
		Question: "耐震レベルはL1とL2のどちらで設計しますか？",
	},
	{
		Key:      "soilType",
		Label:    "地盤種別",
		Category: model.CategorySite,
		Keywords: []string{"地盤種別", "土質", "地盤分類"},
		Patterns: []string{
			`地盤種別[：:]\s*(.+?)(?:\n|$)`,
			`(第[一二三]種地盤)`,
		},
		Question: "地盤種別（第一種〜第三種）を教えてください。",
	},
	{
		Key:      "roofType",
		Label:    "屋根形式",
		Category: model.CategoryTank,
		Keywords: []string{"屋根", "屋根形式", "固定屋根", "浮き屋根"},
		Patterns: []string{
			`屋根(?:形式)?[：:]\s*(.+?)(?:\n|$)`,
			`(固定屋根|浮き屋根|ドーム屋根|コーンルーフ)`,
		},
	},
	{
		Key:       "groundwaterLevel",
		Label:     "地下水位",
		Category:  model.CategorySite,
		Keywords:  []string{"地下水位", "地下水"},
		Normalize: NormalizeNumber,
		Patterns: []string{
			`地下水位[：:]\s*GL-?([\d,]+\.?\d*)\s*(?:m|メートル)`,
			`地下水位[：:]\s*([\d,]+\.?\d*)\s*(?:m|メートル)`,
		},
	},
	{
		Key:       "allowableStress",
		Label:     "許容応力度",
		Category:  model.CategorySite,
		Keywords:  []string{"許容応力度", "許容支持力"},
		Normalize: NormalizeNumber,
		Patterns: []string{
			`許容(?:応力度|支持力)[：:]\s*([\d,]+\.?\d*)\s*(?:kN/㎡|kN/m2|kPa)`,
		},
	},
	{
		Key:      "designCriteria",
		Label:    "設計基準",
		Category: model.CategoryRegulation,
		Keywords: []string{"設計基準", "適用基準", "準拠"},
		Patterns: []string{
			`(?:設計|適用)基準[：:]\s*(.+?)(?:\n|$)`,
			`(消防法|危険物の規制に関する政令|KHK|JIS\s?B\s?8501)(?:に)?準拠`,
		},
		Question: "適用する設計基準を教えてください。（例：消防法、KHK、JIS B 8501）",
	},
	{
		Key:      "loadCases",
		Label:    "荷重ケース",
		Category: model.CategoryRegulation,
		Keywords: []string{"荷重", "荷重ケース", "荷重条件"},
		Patterns: []string{
			`荷重(?:ケース|条件)[：:]\s*(.+?)(?:\n|$)`,
		},
		Question: "考慮する荷重ケースを教えてください。",
	},
	{
		Key:       "safetyFactors",
		Label:     "安全率",
		Category:  model.CategoryRegulation,
		Keywords:  []string{"安全率"},
		Normalize: NormalizeNumber,
		Patterns: []string{
			`安全率[：:]\s*([\d,]+\.?\d*)`,
		},
		Question: "設計に用いる安全率を教えてください。",
	},
	{
		Key:      "specialConsiderations",
		Label:    "特記事項",
		Category: model.CategoryOther,
		Keywords: []string{"特記事項", "特記", "留意事項"},
		Patterns: []string{
			`(?:特記事項|留意事項)[：:]\s*(.+?)(?:\n|$)`,
		},
	},
	{
		Key:      "environmentalFactors",
		Label:    "環境条件",
		Category: model.CategoryOther,
		Keywords: []string{"環境条件", "塩害", "凍結", "腐食"},
		Patterns: []string{
			`環境条件[：:]\s*(.+?)(?:\n|$)`,
			`(塩害|凍結融解|腐食環境)(?:地域|環境)?`,
		},
	},
}

// defaultPhases mirrors the intake workflow: p1 basic info, p2 tank spec
// and ground conditions, p3 design criteria. Later phases are driven by the
// calculation engine and carry no extraction requirements.
var defaultPhases = []model.PhaseDefinition{
	{
		Phase:               model.PhaseBasicInfo,
		RequiredFields:      []string{"siteAddress", "buildingUse", "totalFloorArea"},
		OptionalFields:      []string{"projectName", "siteName", "siteArea", "numberOfFloors", "structureType", "landUse"},
		CompletionThreshold: 0.75,
	},
	{
		Phase:               model.PhaseTankSpec,
		RequiredFields:      []string{"tankCapacity", "tankContent", "tankDiameter", "tankHeight", "seismicLevel", "soilType"},
		OptionalFields:      []string{"roofType", "groundwaterLevel", "allowableStress"},
		CompletionThreshold: 0.8,
	},
	{
		Phase:               model.PhaseDesignCriteria,
		RequiredFields:      []string{"designCriteria", "loadCases", "safetyFactors"},
		OptionalFields:      []string{"specialConsiderations", "environmentalFactors"},
		CompletionThreshold: 0.9,
	},
	{Phase: model.PhaseSoilData, CompletionThreshold: 1.0},
	{Phase: model.PhasePileCatalog, CompletionThreshold: 1.0},
	{Phase: model.PhaseCalculation, CompletionThreshold: 1.0},
	{Phase: model.PhaseReview, CompletionThreshold: 1.0},
	{Phase: model.PhaseReport, CompletionThreshold: 1.0},
}

// Default returns the built-in catalog. The pattern table is static, so a
// compile failure here is a programming error.
func Default() *Catalog {
	c, err := New(defaultFields, defaultPhases)
	if err != nil {
		panic(err)
	}
	return c
}
