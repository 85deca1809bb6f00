package main

// Sample is one benchmark input. Text goes to /api/polish and Topic to
// /api/framework; either may be empty to skip that endpoint.
type Sample struct {
	Name  string
	Text  string
	Topic string
}

// Samples are colloquial legal texts and case topics at increasing length.
var Samples = []Sample{
	{
		Name:  "tiny",
		Text:  "他借了我钱一直不还，我想告他。",
		Topic: "民间借贷纠纷",
	},
	{
		Name:  "short",
		Text:  "我和公司签了三年的劳动合同，现在才干了一年公司就说不要我了，也没给任何补偿，我觉得这不合理，公司应该赔钱给我。",
		Topic: "用人单位违法解除劳动合同的赔偿责任",
	},
	{
		Name: "medium",
		Text: `2023年3月，原告与被告签订了房屋买卖合同，约定被告把位于某市某区的房子卖给原告，总价一百二十万元，原告先付了三十万定金。合同里写了被告要在6月30日前办好过户，可是到了时间被告一直拖着不办，打电话也不接。后来原告才知道被告已经把房子又卖给了别人，还办了过户手续。原告认为被告这是一房二卖，严重违约，要求被告双倍返还定金，并赔偿因为房价上涨造成的损失。`,
		Topic: "一房二卖情形下买受人的救济途径及定金罚则的适用",
	},
	{
		Name: "long",
		Text: `本案当事人甲公司是一家做建材批发的企业，乙公司是一家建筑施工企业。双方从2021年开始合作，甲公司长期给乙公司供应钢材和水泥，每次送货后乙公司都会签收送货单，但是双方一直没有签书面的买卖合同，货款也是按月对账后再付。

2022年下半年开始，乙公司付款越来越慢，到2023年底一共欠了甲公司货款三百八十多万元。甲公司多次派人去催，乙公司的财务每次都说项目款还没收回来，等甲方付了钱就马上结清。2024年初，甲公司发律师函要求乙公司在十五日内付清全部欠款，乙公司回函承认欠款数额，但说只能分期付款，每个月付二十万。

甲公司不同意分期，想直接起诉，要求乙公司付清全部货款，并按照LPR的1.5倍支付逾期付款的利息。甲公司担心的问题有几个：第一，没有书面合同，光凭送货单和对账单能不能证明买卖关系；第二，有些送货单是乙公司工地上的材料员签的，不是公司盖章，这些签收算不算数；第三，早期的一些货款是不是已经过了诉讼时效；第四，能不能申请财产保全，冻结乙公司的银行账户。`,
		Topic: "无书面合同的建材买卖欠款纠纷：买卖关系的证明、表见代理签收的效力、诉讼时效中断及诉前财产保全",
	},
}

// QualitySamples each target one class of writing issue.
// Used by -quality mode to inspect the model's output side by side.
var QualitySamples = []Sample{
	{
		Name: "colloquial",
		// Tests: spoken register to formal register
		Text:  "那个老板太坑了，干完活就跑路了，工钱一分都没给我们。",
		Topic: "农民工追讨劳动报酬",
	},
	{
		Name: "emotional",
		// Tests: removing emotion and subjective judgement
		Text:  "被告简直就是个骗子！他明明知道车有问题还故意瞒着我卖给我，害我花了好几万修车，必须让他付出代价！",
		Topic: "二手车买卖中卖方隐瞒重大瑕疵的欺诈认定",
	},
	{
		Name: "imprecise",
		// Tests: vague quantities and dates, missing subjects
		Text:  "大概去年夏天的时候借给他差不多五万块，说好年底还，后来又说过几个月，到现在也没还。",
		Topic: "借条缺失时民间借贷事实的证明",
	},
	{
		Name: "terminology",
		// Tests: lay wording of legal terms (定金/订金, 起诉/上告)
		Text:  "我交了订金五千块，现在卖家不卖了，我要上告他，让他赔我双倍订金。",
		Topic: "定金与订金的区分及定金罚则",
	},
}
