package main

type (
	// PaperNode 계층형 인용 그래프의 논문 노드
	PaperNode struct {
		Id            string `json:"id"`
		Name          string `json:"name"`
		Community     int    `json:"community"`
		CitationCount int    `json:"citation_count"`
		Degree        int    `json:"degree"`
		Year          *int   `json:"year,omitempty"`
	}

	// PaperLink 방향은 저장 시의 source/target 그대로 유지하지만 연결성 계산에서는 무방향으로 취급
	PaperLink struct {
		Source          string `json:"source"`
		Target          string `json:"target"`
		SourceCommunity int    `json:"source_community"`
		TargetCommunity int    `json:"target_community"`
	}

	CommunityInfo struct {
		Id    int      `json:"id"`
		Size  int      `json:"size"`
		Nodes []string `json:"nodes"`
	}

	// HierarchicalDataset /network/hierarchical-citation 응답
	HierarchicalDataset struct {
		Nodes            []PaperNode     `json:"nodes"`
		Links            []PaperLink     `json:"links"`
		Communities      []CommunityInfo `json:"communities"`
		TotalCommunities int             `json:"total_communities"`
	}

	NetworkNode struct {
		Id            string `json:"id"`
		Title         string `json:"title,omitempty"`
		CitationCount int    `json:"citation_count,omitempty"`
		Community     int    `json:"community,omitempty"`
	}

	NetworkLink struct {
		Source string  `json:"source"`
		Target string  `json:"target"`
		Weight float64 `json:"weight,omitempty"`
	}

	// NetworkData /network/citation, /network/collaboration 응답
	NetworkData struct {
		Nodes       []NetworkNode `json:"nodes"`
		Links       []NetworkLink `json:"links"`
		Communities int           `json:"communities"`
	}

	// ScalabilitySolution /scalability-solution 응답, 네트워크 페이지 하단에 설명으로 표시
	ScalabilitySolution struct {
		SolutionParagraph string `json:"solution_paragraph"`
	}

	TimelinePoint struct {
		Year  int `json:"year"`
		Count int `json:"count"`
	}
)
