package export

// Static PresentationML parts shared by every generated deck: one master,
// one blank layout and an Office-like theme.

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const (
	nsA   = `http://schemas.openxmlformats.org/drawingml/2006/main`
	nsR   = `http://schemas.openxmlformats.org/officeDocument/2006/relationships`
	nsP   = `http://schemas.openxmlformats.org/presentationml/2006/main`
	nsRel = `http://schemas.openxmlformats.org/package/2006/relationships`

	relOfficeDoc   = `http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument`
	relCoreProps   = `http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties`
	relExtProps    = `http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties`
	relSlideMaster = `http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster`
	relSlideLayout = `http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout`
	relSlide       = `http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide`
	relTheme       = `http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme`
	relPresProps   = `http://schemas.openxmlformats.org/officeDocument/2006/relationships/presProps`
	relViewProps   = `http://schemas.openxmlformats.org/officeDocument/2006/relationships/viewProps`
	relTableStyles = `http://schemas.openxmlformats.org/officeDocument/2006/relationships/tableStyles`

	ctPresentation = `application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml`
	ctSlideMaster  = `application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml`
	ctSlideLayout  = `application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml`
	ctSlide        = `application/vnd.openxmlformats-officedocument.presentationml.slide+xml`
	ctTheme        = `application/vnd.openxmlformats-officedocument.theme+xml`
	ctPresProps    = `application/vnd.openxmlformats-officedocument.presentationml.presProps+xml`
	ctViewProps    = `application/vnd.openxmlformats-officedocument.presentationml.viewProps+xml`
	ctTableStyles  = `application/vnd.openxmlformats-officedocument.presentationml.tableStyles+xml`
	ctCoreProps    = `application/vnd.openxmlformats-package.core-properties+xml`
	ctExtProps     = `application/vnd.openxmlformats-officedocument.extended-properties+xml`
)

const emptyGroup = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`

const rootRels = xmlHeader +
	`<Relationships xmlns="` + nsRel + `">` +
	`<Relationship Id="rId1" Type="` + relOfficeDoc + `" Target="ppt/presentation.xml"/>` +
	`<Relationship Id="rId2" Type="` + relCoreProps + `" Target="docProps/core.xml"/>` +
	`<Relationship Id="rId3" Type="` + relExtProps + `" Target="docProps/app.xml"/>` +
	`</Relationships>`

const slideMaster = xmlHeader +
	`<p:sldMaster xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `">` +
	`<p:cSld><p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg><p:spTree>` + emptyGroup + `</p:spTree></p:cSld>` +
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
	`<p:txStyles><p:titleStyle/><p:bodyStyle/><p:otherStyle/></p:txStyles>` +
	`</p:sldMaster>`

const slideMasterRels = xmlHeader +
	`<Relationships xmlns="` + nsRel + `">` +
	`<Relationship Id="rId1" Type="` + relSlideLayout + `" Target="../slideLayouts/slideLayout1.xml"/>` +
	`<Relationship Id="rId2" Type="` + relTheme + `" Target="../theme/theme1.xml"/>` +
	`</Relationships>`

const slideLayout = xmlHeader +
	`<p:sldLayout xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `" type="blank" preserve="1">` +
	`<p:cSld name="Blank"><p:spTree>` + emptyGroup + `</p:spTree></p:cSld>` +
	`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
	`</p:sldLayout>`

const slideLayoutRels = xmlHeader +
	`<Relationships xmlns="` + nsRel + `">` +
	`<Relationship Id="rId1" Type="` + relSlideMaster + `" Target="../slideMasters/slideMaster1.xml"/>` +
	`</Relationships>`

const slideRels = xmlHeader +
	`<Relationships xmlns="` + nsRel + `">` +
	`<Relationship Id="rId1" Type="` + relSlideLayout + `" Target="../slideLayouts/slideLayout1.xml"/>` +
	`</Relationships>`

const presProps = xmlHeader +
	`<p:presentationPr xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `"/>`

const viewProps = xmlHeader +
	`<p:viewPr xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `"/>`

const tableStyles = xmlHeader +
	`<a:tblStyleLst xmlns:a="` + nsA + `" def="{5C22544A-7EE6-4342-B048-85BDC9FD1C3A}"/>`

const solidFill = `<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>`

const theme = xmlHeader +
	`<a:theme xmlns:a="` + nsA + `" name="Office Theme"><a:themeElements>` +
	`<a:clrScheme name="Office">` +
	`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>` +
	`<a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>` +
	`<a:dk2><a:srgbClr val="1F497D"/></a:dk2>` +
	`<a:lt2><a:srgbClr val="EEECE1"/></a:lt2>` +
	`<a:accent1><a:srgbClr val="4F81BD"/></a:accent1>` +
	`<a:accent2><a:srgbClr val="C0504D"/></a:accent2>` +
	`<a:accent3><a:srgbClr val="9BBB59"/></a:accent3>` +
	`<a:accent4><a:srgbClr val="8064A2"/></a:accent4>` +
	`<a:accent5><a:srgbClr val="4BACC6"/></a:accent5>` +
	`<a:accent6><a:srgbClr val="F79646"/></a:accent6>` +
	`<a:hlink><a:srgbClr val="0000FF"/></a:hlink>` +
	`<a:folHlink><a:srgbClr val="800080"/></a:folHlink>` +
	`</a:clrScheme>` +
	`<a:fontScheme name="Office">` +
	`<a:majorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
	`<a:minorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>` +
	`</a:fontScheme>` +
	`<a:fmtScheme name="Office">` +
	`<a:fillStyleLst>` + solidFill + solidFill + solidFill + `</a:fillStyleLst>` +
	`<a:lnStyleLst>` +
	`<a:ln w="9525">` + solidFill + `</a:ln>` +
	`<a:ln w="25400">` + solidFill + `</a:ln>` +
	`<a:ln w="38100">` + solidFill + `</a:ln>` +
	`</a:lnStyleLst>` +
	`<a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst>` +
	`<a:bgFillStyleLst>` + solidFill + solidFill + solidFill + `</a:bgFillStyleLst>` +
	`</a:fmtScheme>` +
	`</a:themeElements><a:objectDefaults/><a:extraClrSchemeLst/></a:theme>`
