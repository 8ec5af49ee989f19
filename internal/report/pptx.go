package report

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image/png"
	"os"
	"strings"

	"insight-engine-go/internal/charts"
)

// The slide deck is written directly as its OOXML parts: a .pptx file is a
// zip holding a presentation part, one master/layout/theme, and one XML part
// plus relationships per slide. Slide geometry is in EMUs on a 10x7.5 inch
// canvas.
const (
	emuPerInch = 914400
	slideCX    = 10 * emuPerInch
	slideCY    = 15 * emuPerInch / 2
	picOffset  = 7 * emuPerInch / 10 // 0.7in margin, matches the PDF layout
	picWidth   = 17 * emuPerInch / 2 // 8.5in
)

// WritePPTX assembles the slide deck: a title/summary slide followed by one
// full-size chart per slide in the fixed metric order. Overwrites any prior
// deck at path.
func WritePPTX(path, title, narrative string, plots map[string]string) error {
	var images [][]byte
	for _, key := range charts.MetricOrder {
		p, ok := plots[key]
		if !ok {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read chart %s: %w", key, err)
		}
		images = append(images, data)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create pptx: %w", err)
	}
	zw := zip.NewWriter(out)

	add := func(name string, content []byte) error {
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		_, err = w.Write(content)
		return err
	}
	addStr := func(name, content string) error {
		return add(name, []byte(content))
	}

	write := func() error {
		slideCount := 1 + len(images)

		var typeOverrides strings.Builder
		for i := 1; i <= slideCount; i++ {
			fmt.Fprintf(&typeOverrides, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i)
		}
		if err := addStr("[Content_Types].xml", fmt.Sprintf(contentTypesXML, typeOverrides.String())); err != nil {
			return err
		}
		if err := addStr("_rels/.rels", rootRelsXML); err != nil {
			return err
		}

		var slideIDs, presRels strings.Builder
		for i := 1; i <= slideCount; i++ {
			fmt.Fprintf(&slideIDs, `<p:sldId id="%d" r:id="rId%d"/>`, 255+i, i+1)
			fmt.Fprintf(&presRels, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, i+1, i)
		}
		if err := addStr("ppt/presentation.xml", fmt.Sprintf(presentationXML, slideIDs.String(), slideCX, slideCY)); err != nil {
			return err
		}
		if err := addStr("ppt/_rels/presentation.xml.rels", fmt.Sprintf(presRelsXML, presRels.String())); err != nil {
			return err
		}

		static := []struct {
			name    string
			content string
		}{
			{"ppt/slideMasters/slideMaster1.xml", slideMasterXML},
			{"ppt/slideMasters/_rels/slideMaster1.xml.rels", masterRelsXML},
			{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML},
			{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", layoutRelsXML},
			{"ppt/theme/theme1.xml", themeXML},
			{"ppt/slides/slide1.xml", titleSlideXML(title, narrative)},
			{"ppt/slides/_rels/slide1.xml.rels", titleSlideRelsXML},
		}
		for _, part := range static {
			if err := addStr(part.name, part.content); err != nil {
				return err
			}
		}

		for i, data := range images {
			w, h := pngExtent(data)
			if err := addStr(fmt.Sprintf("ppt/slides/slide%d.xml", i+2), pictureSlideXML(w, h)); err != nil {
				return err
			}
			if err := addStr(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+2),
				fmt.Sprintf(pictureSlideRelsXML, i+1)); err != nil {
				return err
			}
			if err := add(fmt.Sprintf("ppt/media/image%d.png", i+1), data); err != nil {
				return err
			}
		}
		return nil
	}

	if err := write(); err != nil {
		zw.Close()
		out.Close()
		return fmt.Errorf("write pptx: %w", err)
	}
	if err := zw.Close(); err != nil {
		out.Close()
		return fmt.Errorf("write pptx: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("write pptx: %w", err)
	}
	return nil
}

// pngExtent scales the picture to the full slide width, keeping aspect.
func pngExtent(data []byte) (cx, cy int64) {
	cx = picWidth
	cy = picWidth * 5 / 8 // renderer default aspect
	if cfg, err := png.DecodeConfig(bytes.NewReader(data)); err == nil && cfg.Width > 0 {
		cy = cx * int64(cfg.Height) / int64(cfg.Width)
	}
	return cx, cy
}

func titleSlideXML(title, narrative string) string {
	var body strings.Builder
	if narrative != "" {
		var paras strings.Builder
		for _, line := range strings.Split(narrative, "\n") {
			fmt.Fprintf(&paras, `<a:p><a:r><a:rPr lang="en-US" sz="1600"/><a:t>%s</a:t></a:r></a:p>`, xmlEscape(line))
		}
		fmt.Fprintf(&body, textBoxXML, 3, "Summary",
			picOffset, 11*emuPerInch/10, // 0.7in, 1.1in
			8*emuPerInch, 9*emuPerInch/2,
			paras.String())
	}
	titleParas := fmt.Sprintf(`<a:p><a:r><a:rPr lang="en-US" sz="2800" b="1"/><a:t>%s</a:t></a:r></a:p>`, xmlEscape(title))
	titleBox := fmt.Sprintf(textBoxXML, 2, "Title",
		picOffset, 3*emuPerInch/10,
		8*emuPerInch, emuPerInch,
		titleParas)
	return fmt.Sprintf(slideShellXML, titleBox+body.String())
}

func pictureSlideXML(cx, cy int64) string {
	pic := fmt.Sprintf(pictureXML, picOffset, picOffset, cx, cy)
	return fmt.Sprintf(slideShellXML, pic)
}

func xmlEscape(s string) string {
	return xmlReplacer.Replace(s)
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const contentTypesXML = xmlHeader + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Default Extension="png" ContentType="image/png"/><Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/><Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/><Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/><Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>%s</Types>`

const rootRelsXML = xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/></Relationships>`

const presentationXML = xmlHeader + `<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst><p:sldIdLst>%s</p:sldIdLst><p:sldSz cx="%d" cy="%d"/><p:notesSz cx="6858000" cy="9144000"/></p:presentation>`

const presRelsXML = xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>%s</Relationships>`

const slideMasterXML = xmlHeader + `<p:sldMaster xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree></p:cSld><p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/><p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst></p:sldMaster>`

const masterRelsXML = xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/><Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="../theme/theme1.xml"/></Relationships>`

const slideLayoutXML = xmlHeader + `<p:sldLayout xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld name="Blank"><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`

const layoutRelsXML = xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="../slideMasters/slideMaster1.xml"/></Relationships>`

const themeXML = xmlHeader + `<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Office"><a:themeElements><a:clrScheme name="Office"><a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1><a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1><a:dk2><a:srgbClr val="44546A"/></a:dk2><a:lt2><a:srgbClr val="E7E6E6"/></a:lt2><a:accent1><a:srgbClr val="4472C4"/></a:accent1><a:accent2><a:srgbClr val="ED7D31"/></a:accent2><a:accent3><a:srgbClr val="A5A5A5"/></a:accent3><a:accent4><a:srgbClr val="FFC000"/></a:accent4><a:accent5><a:srgbClr val="5B9BD5"/></a:accent5><a:accent6><a:srgbClr val="70AD47"/></a:accent6><a:hlink><a:srgbClr val="0563C1"/></a:hlink><a:folHlink><a:srgbClr val="954F72"/></a:folHlink></a:clrScheme><a:fontScheme name="Office"><a:majorFont><a:latin typeface="Calibri Light"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont><a:minorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont></a:fontScheme><a:fmtScheme name="Office"><a:fillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:fillStyleLst><a:lnStyleLst><a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln w="12700"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln w="19050"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln></a:lnStyleLst><a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst><a:bgFillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:bgFillStyleLst></a:fmtScheme></a:themeElements></a:theme>`

const slideShellXML = xmlHeader + `<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>%s</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`

// textBoxXML: shape id, name, off x/y, ext cx/cy, paragraphs.
const textBoxXML = `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr><p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr><p:txBody><a:bodyPr wrap="square"/><a:lstStyle/>%s</p:txBody></p:sp>`

// pictureXML: off x/y, ext cx/cy. The picture always relates as rId1.
const pictureXML = `<p:pic><p:nvPicPr><p:cNvPr id="2" name="Chart"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr><p:blipFill><a:blip r:embed="rId1"/><a:stretch><a:fillRect/></a:stretch></p:blipFill><p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`

const titleSlideRelsXML = xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/></Relationships>`

const pictureSlideRelsXML = xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="../media/image%d.png"/><Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/></Relationships>`
